package calculator

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shoaibsidiki/deltaT-calculator/model"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		in   model.ContactInputs
		want []model.Field
	}{
		{"defaults", model.DefaultInputs(), nil},
		{"zero mu is fine", model.DefaultInputs().With(model.Mu, 0), nil},
		{"zero Fn", model.DefaultInputs().With(model.Fn, 0), []model.Field{model.Fn}},
		{"zero b_PTFE", model.DefaultInputs().With(model.BPTFE, 0), []model.Field{model.BPTFE}},
		{
			"several",
			model.DefaultInputs().With(model.B, 0).With(model.V, 0).With(model.Rd, 0),
			[]model.Field{model.V, model.Rd, model.B},
		},
		{
			"all",
			model.ContactInputs{},
			[]model.Field{model.Fn, model.V, model.R, model.Rd, model.B, model.BPTFE},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(c.in)
			if c.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ze *ZeroInputError
			if !errors.As(err, &ze) {
				t.Fatalf("got %v, want *ZeroInputError", err)
			}
			if !reflect.DeepEqual(ze.Fields, c.want) {
				t.Errorf("fields: got %v, want %v", ze.Fields, c.want)
			}
			for _, f := range c.want {
				if !strings.Contains(err.Error(), f.String()) {
					t.Errorf("message %q does not name %v", err.Error(), f)
				}
			}
			if !errors.Is(err, ErrZeroInput) || !errors.Is(err, ErrInvalidInput) {
				t.Error("ZeroInputError should match ErrZeroInput and ErrInvalidInput")
			}
		})
	}
}

func TestParseDomainMode(t *testing.T) {
	for s, want := range map[string]DomainMode{
		"ignore": DomainIgnore,
		"":       DomainIgnore,
		"Warn":   DomainWarn,
		"reject": DomainReject,
	} {
		got, err := ParseDomainMode(s)
		if err != nil || got != want {
			t.Errorf("ParseDomainMode(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	if _, err := ParseDomainMode("strict"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestDomainPolicy(t *testing.T) {
	inside := model.DefaultInputs()
	outside := inside.With(model.Rd, 0.08).With(model.V, 2)

	p := DefaultDomainPolicy()
	if v, err := p.Check(inside); err != nil || len(v) != 0 {
		t.Errorf("inside: got %v, %v", v, err)
	}

	v, err := p.Check(outside)
	if err != nil {
		t.Fatalf("warn: unexpected error %v", err)
	}
	if len(v) != 2 || v[0].Field != model.V || v[1].Field != model.Rd {
		t.Errorf("warn: got %v", v)
	}

	p.Mode = DomainReject
	_, err = p.Check(outside)
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("reject: got %v, want *DomainError", err)
	}
	if !reflect.DeepEqual(de.Fields(), []model.Field{model.V, model.Rd}) {
		t.Errorf("reject: fields %v", de.Fields())
	}
	if !errors.Is(err, ErrOutOfDomain) {
		t.Error("reject: errors.Is(ErrOutOfDomain) false")
	}

	p.Mode = DomainIgnore
	if v, err := p.Check(outside); err != nil || v != nil {
		t.Errorf("ignore: got %v, %v", v, err)
	}
}
