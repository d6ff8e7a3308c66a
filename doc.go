/*
Package formflow is a navigation engine for multi-step, form-driven journeys.

A journey starts on Home, where the user picks one of the flows of a catalog.
Each flow is a small directed graph that restricts which screen may follow
which: Tutorial, one or two password forms (FormA, FormB), Preview and Result.
A stack router records the visited screens together with a snapshot of the
form data carried into each of them, so going back always restores exactly
what the user saw.

# Concept

The Engine separates three concerns:

  - Flows (pkg/domain, pkg/catalog) decide where the user may go next.
  - The Router (pkg/navigation) remembers where the user has been.
  - The Session (pkg/session) owns the live form data and runs validations.

Validation is asynchronous. While a form is being validated the engine stays
responsive: a second submission of the same form is rejected, and leaving the
form cancels the pending run so its outcome is never applied to another screen.
A Fatal outcome opens the Error screen, which suspends every operation except
ToRoot.

# Usage

	eng, err := formflow.New()
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	eng.Start("routeA")   // Home -> FormA
	_ = eng.SetInput(domain.FormA, "ABC123")

	outcome, err := eng.Submit(ctx, domain.FormA)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(outcome.Kind(), eng.CurrentRoute()) // valid result

# Adapters

The same Engine is exposed through an interactive terminal runner (pkg/runner),
an HTTP API with Server-Sent Events (pkg/adapters/http) and an MCP server
(pkg/adapters/mcp). The in-flight guard can be shared across processes with
the Redis adapter (pkg/adapters/redis).
*/
package formflow
