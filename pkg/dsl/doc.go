/*
Package dsl provides a Go DSL for building flow catalogs in code.

It is the type-checked alternative to a YAML catalog file: flows are declared
with a fluent builder, validated like any catalog and compiled into a
ports.FlowSource.

Example usage:

	b := dsl.New()

	b.Flow("express").
		Title("Express").
		Path(domain.RouteTutorial, domain.RouteFormA, domain.RouteResult)

	b.Flow("pin-only").
		Path(domain.RouteTutorial, domain.RouteFormB, domain.RoutePreview, domain.RouteResult)

	source, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	eng, err := formflow.New(formflow.WithCatalog(source))
*/
package dsl
