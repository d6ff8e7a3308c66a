/*
Package catalog loads and checks the static catalog of flows.

The default catalog is embedded from flows.yaml and holds the four shipped
flows (routeA to routeD). Custom catalogs use the same document shape, in YAML
or JSON:

	flows:
	  - id: routeA
	    title: Route A
	    start: tutorial
	    transitions:
	      tutorial: [form_a]
	      form_a: [result]

Validate rejects duplicate ids, unknown routes, transitions touching Home or
Error, cycles, and flows whose longest path exceeds MaxHops.
*/
package catalog
