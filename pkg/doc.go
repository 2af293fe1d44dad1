// Package pkg provides the core libraries for Panegrid split-pane
// layout editing.
//
// # Overview
//
// Panegrid keeps two synchronized views of one guillotine layout: an
// immutable abstract tree of binary splits ([layout]) and a live
// rendering surface of containers and drawable cells ([figure]). Edits
// are expressed as invertible change records and folded through both
// views in lockstep ([apply]), which gives undo for free.
//
// The typical data flow:
//
//	layout document (JSON)
//	        |
//	     layout.Element  --- geometry (boxes, adjacency, BSP)
//	        |
//	     render.RenderLayout (runs registry producers)
//	        |
//	     figure.Figure  --->  SVG + post-processing
//
// On top of that sit [merge] (restructuring two touching panels into
// siblings), [session] (per-token editing state) and the HTTP API in
// internal/server.
package pkg
