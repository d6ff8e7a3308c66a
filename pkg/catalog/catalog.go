package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

//go:embed flows.yaml
var defaultDocument []byte

// FlowSpec is the serialized form of a flow, keyed by route identifiers.
type FlowSpec struct {
	ID          string              `json:"id" mapstructure:"id"`
	Title       string              `json:"title" mapstructure:"title"`
	Description string              `json:"description" mapstructure:"description"`
	Start       string              `json:"start" mapstructure:"start"`
	Transitions map[string][]string `json:"transitions" mapstructure:"transitions"`
}

type document struct {
	Flows []map[string]any `yaml:"flows" json:"flows"`
}

// Catalog is a validated, ordered list of flows.
// It implements ports.FlowSource.
type Catalog struct {
	flows []domain.Flow
}

// Default returns the embedded catalog of the four shipped flows.
func Default() *Catalog {
	c, err := Parse(defaultDocument, ".yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// DefaultDocument returns the raw embedded YAML.
func DefaultDocument() []byte {
	return bytes.Clone(defaultDocument)
}

// Load reads a catalog file. The format follows the extension: ".json" or YAML otherwise.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte, ext string) (*Catalog, error) {
	var doc document
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog json: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
		}
	}

	specs := make([]FlowSpec, 0, len(doc.Flows))
	var errs []error
	for i, raw := range doc.Flows {
		spec, err := decodeSpec(raw)
		if err != nil {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("flows[%d]", i), Reason: err.Error()})
			continue
		}
		specs = append(specs, spec)
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}

	return FromSpecs(specs...)
}

// FromSpecs converts and validates flow specs.
func FromSpecs(specs ...FlowSpec) (*Catalog, error) {
	var errs []error
	flows := make([]domain.Flow, 0, len(specs))
	for _, s := range specs {
		f, ferrs := s.toFlow()
		errs = append(errs, ferrs...)
		if len(ferrs) == 0 {
			flows = append(flows, f)
		}
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}

	if err := Validate(flows); err != nil {
		return nil, err
	}
	return &Catalog{flows: flows}, nil
}

// Flows implements ports.FlowSource.
func (c *Catalog) Flows(ctx context.Context) ([]domain.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.List(), nil
}

// List returns a copy of the flows in document order.
func (c *Catalog) List() []domain.Flow {
	out := make([]domain.Flow, len(c.flows))
	for i, f := range c.flows {
		out[i] = f.Clone()
	}
	return out
}

// Specs returns the serializable form of every flow.
func (c *Catalog) Specs() []FlowSpec {
	out := make([]FlowSpec, len(c.flows))
	for i, f := range c.flows {
		out[i] = SpecOf(f)
	}
	return out
}

// SpecOf converts a flow back to its serialized form.
func SpecOf(f domain.Flow) FlowSpec {
	spec := FlowSpec{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Start:       f.StartRoute.String(),
		Transitions: make(map[string][]string, len(f.Transitions)),
	}
	for from, to := range f.Transitions {
		names := make([]string, len(to))
		for i, r := range to {
			names[i] = r.String()
		}
		spec.Transitions[from.String()] = names
	}
	return spec
}

func decodeSpec(raw map[string]any) (FlowSpec, error) {
	var spec FlowSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &spec,
		ErrorUnused: true,
	})
	if err != nil {
		return spec, err
	}
	if err := dec.Decode(raw); err != nil {
		return spec, err
	}
	return spec, nil
}

func (s FlowSpec) toFlow() (domain.Flow, []error) {
	var errs []error
	fail := func(key, reason string) {
		errs = append(errs, &ValidationError{Flow: s.ID, Key: key, Reason: reason})
	}

	start, err := domain.ParseRoute(s.Start)
	if err != nil {
		fail("start", err.Error())
	}

	transitions := make(map[domain.Route][]domain.Route, len(s.Transitions))
	for fromName, toNames := range s.Transitions {
		from, err := domain.ParseRoute(fromName)
		if err != nil {
			fail("transitions", err.Error())
			continue
		}
		list := make([]domain.Route, 0, len(toNames))
		for _, name := range toNames {
			to, err := domain.ParseRoute(name)
			if err != nil {
				fail("transitions."+fromName, err.Error())
				continue
			}
			list = append(list, to)
		}
		transitions[from] = list
	}

	return domain.NewFlow(s.ID, s.Title, s.Description, start, transitions), errs
}

var _ ports.FlowSource = (*Catalog)(nil)
