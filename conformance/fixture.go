// Package conformance runs list repair implementations against suites of input/expected HTML
// fixtures and reports the results as text, JSON or JUnit XML.
package conformance

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var builtinFS embed.FS

// ErrNoSuites is returned by LoadFS when the pattern matches no files.
var ErrNoSuites = errors.New("no fixture suites found")

// Fixture is a single repair case: Input must repair to Expected byte for byte.
type Fixture struct {
	Description string   `yaml:"description" json:"description" validate:"required"`
	Input       string   `yaml:"input" json:"input"`
	Expected    string   `yaml:"expected" json:"expected"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty" validate:"dive,required"`
}

// Suite is a named, ordered list of fixtures, stored as one YAML file.
type Suite struct {
	Name     string     `yaml:"name" json:"name" validate:"required"`
	Fixtures []*Fixture `yaml:"fixtures" json:"fixtures" validate:"required,min=1,dive,required"`
}

var validate = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Decode reads one suite from r. Unknown fields are rejected and the suite is validated.
func Decode(r io.Reader) (*Suite, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Suite
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode suite: empty document")
		}
		return nil, fmt.Errorf("decode suite: %w", err)
	}
	if err := validate().Struct(&s); err != nil {
		return nil, fmt.Errorf("validate suite %q: %w", s.Name, err)
	}
	return &s, nil
}

// LoadFS loads every suite in fsys whose path matches pattern, in lexical path order.
func LoadFS(fsys fs.FS, pattern string) ([]*Suite, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", pattern, ErrNoSuites)
	}

	var (
		suites []*Suite
		errs   []error
	)
	for _, name := range names {
		s, err := loadFile(fsys, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		suites = append(suites, s)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return suites, nil
}

func loadFile(fsys fs.FS, name string) (*Suite, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Builtin returns the embedded corpus: the fixtures of the editor list cleaning test dialog and
// additional edge cases.
func Builtin() []*Suite {
	suites, err := LoadFS(builtinFS, "fixtures/*.yaml")
	if err != nil {
		panic(fmt.Sprintf("conformance: embedded fixtures: %v", err))
	}
	return suites
}
