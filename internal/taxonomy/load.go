package taxonomy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var defaultTaxonomy []byte

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
	defaultErr  error
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the process-wide taxonomy built from the embedded
// skills.yaml. It is built on first use and shared by every caller.
func Default() *Taxonomy {
	tax, err := LoadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
	}
	return tax
}

// LoadDefault is Default with the build error returned instead of panicking.
func LoadDefault() (*Taxonomy, error) {
	defaultOnce.Do(func() {
		defaultTax, defaultErr = decode("embedded skills.yaml", bytes.NewReader(defaultTaxonomy))
	})
	return defaultTax, defaultErr
}

// LoadFile builds a taxonomy from a YAML file.
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Cause: err}
	}
	defer func() { _ = f.Close() }()

	return decode(path, f)
}

// Load builds a taxonomy from YAML read from r.
func Load(r io.Reader) (*Taxonomy, error) {
	return decode("reader", r)
}

func decode(source string, r io.Reader) (*Taxonomy, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &LoadError{Source: source, Cause: err}
	}

	if err := validate.Struct(doc); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return nil, &ValidationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
			}
		}
		return nil, &ValidationError{Message: err.Error()}
	}

	return New(doc.Skills, doc.Aliases)
}
