package registry

import (
	"reflect"
	"testing"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
)

func TestNew_PreRegistersEmptyProducer(t *testing.T) {
	reg := New()
	p, err := reg.Lookup("draw_empty")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if p.Kind() != KindArtifact {
		t.Errorf("draw_empty kind = %v, want artifact", p.Kind())
	}
	cell := figure.NewCell("draw_empty")
	if content := p.Draw(cell); content != "" {
		t.Errorf("draw_empty content = %q, want empty", content)
	}
}

func TestRegister_DisambiguatesTakenNames(t *testing.T) {
	reg := New()
	p := Artifact(func(figure.Canvas) {})

	first, err := reg.Register("chart", p)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	second, err := reg.Register("chart", p)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	third, err := reg.Register("chart", p)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if first != "chart" || second != "chart_1" || third != "chart_2" {
		t.Errorf("assigned names = %q, %q, %q", first, second, third)
	}
}

func TestRegister_InvalidNameRejected(t *testing.T) {
	reg := New()
	if _, err := reg.Register("", Artifact(func(figure.Canvas) {})); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("error = %v, want INVALID_LAYOUT", err)
	}
}

func TestLookup_UnknownName(t *testing.T) {
	reg := New()
	if _, err := reg.Lookup("nope"); !errors.Is(err, errors.ErrCodeProducerNotFound) {
		t.Errorf("error = %v, want PRODUCER_NOT_FOUND", err)
	}
}

func TestNames_SortedWithDefault(t *testing.T) {
	reg := New()
	if _, err := reg.Register("zebra", Artifact(func(figure.Canvas) {})); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := reg.Register("apple", Content(func() string { return "" })); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got := reg.Names()
	want := []string{"apple", "draw_empty", "zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestDraw_KindDispatch(t *testing.T) {
	cell := figure.NewCell("x")

	content := Content(func() string { return "<svg/>" })
	if got := content.Draw(cell); got != "<svg/>" {
		t.Errorf("content draw = %q", got)
	}

	var drew bool
	artifact := Artifact(func(figure.Canvas) { drew = true })
	if got := artifact.Draw(cell); got != "" || !drew {
		t.Errorf("artifact draw = %q, drew = %v", got, drew)
	}

	both := ArtifactContent(func(c figure.Canvas) string {
		c.Circle(0.5, 0.5, 0.1, figure.Style{})
		return "<g/>"
	})
	if got := both.Draw(cell); got != "<g/>" {
		t.Errorf("artifact+content draw = %q", got)
	}
}
