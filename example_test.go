package formflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/validation"
)

// ExampleEngine walks the shortest shipped flow: Tutorial, Form A, Result.
func ExampleEngine() {
	// Instant validators keep the example fast; the shipped ones add a short delay.
	eng, err := formflow.New(formflow.WithValidators(validation.Registry(validation.Latencies{})))
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	eng.Start("routeA")
	fmt.Println(eng.CurrentRoute())

	eng.Next()
	fmt.Println(eng.CurrentRoute())

	_ = eng.SetInput(domain.FormA, "abc")
	outcome, _ := eng.Submit(context.Background(), domain.FormA)
	fmt.Println(outcome.Kind(), eng.Snapshot().InlineError)

	_ = eng.SetInput(domain.FormA, "ABC123")
	outcome, _ = eng.Submit(context.Background(), domain.FormA)
	fmt.Println(outcome.Kind(), eng.CurrentRoute())

	eng.ToRoot()
	fmt.Println(eng.CurrentRoute())

	// Output:
	// tutorial
	// form_a
	// invalid Enter between 6 and 16 characters
	// valid result
	// home
}
