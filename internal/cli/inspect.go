package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/formflow/internal/config"
	"github.com/aretw0/formflow/internal/presentation/graph"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/i18n"
)

// ListFlows prints the configured catalog as a table.
func ListFlows(w io.Writer, cfg *config.Config) error {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	tr, err := i18n.New(cfg.Lang)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPATH")
	for _, f := range cat.List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, tr.FlowTitle(f), path(f))
	}
	return tw.Flush()
}

// path follows the first transition of every route from the start.
func path(f domain.Flow) string {
	parts := []string{f.StartRoute.String()}
	seen := map[domain.Route]bool{f.StartRoute: true}
	for r := f.StartRoute; ; {
		next := f.NextRoutes(r)
		if len(next) == 0 || seen[next[0]] {
			break
		}
		r = next[0]
		seen[r] = true
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " -> ")
}

// Graph prints the Mermaid diagram of one flow.
func Graph(w io.Writer, cfg *config.Config, flowID string) error {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	tr, err := i18n.New(cfg.Lang)
	if err != nil {
		return err
	}
	for _, f := range cat.List() {
		if f.ID == flowID {
			_, err := io.WriteString(w, graph.GenerateMermaid(f, nil, tr.RouteTitle))
			return err
		}
	}
	return fmt.Errorf("unknown flow %q", flowID)
}

// Validate checks a catalog file and reports every problem found.
func Validate(w io.Writer, path string) error {
	cat, err := catalog.Load(path)
	if err != nil {
		for _, e := range catalog.ValidationErrors(err) {
			fmt.Fprintf(w, "  - %v\n", e)
		}
		return err
	}
	fmt.Fprintf(w, "%s: %d flows, all valid\n", path, len(cat.List()))
	return nil
}
