/*
Package ports defines the driven ports (interfaces) for the formflow engine.

These interfaces decouple the navigation core from external implementations,
allowing validators, flow catalogs and lock backends to be swapped.

# Key Interfaces

  - Validator: Checks a form's raw input and returns a ValidationOutcome.
  - FlowSource: Provides the catalog of flows (embedded YAML, file, memory).
  - FormLocker: Non-blocking guard rejecting a second validation of the same form.
  - DistributedLocker: Blocking lock serializing work on one session.
*/
package ports
