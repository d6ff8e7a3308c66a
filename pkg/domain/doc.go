/*
Package domain contains the core domain models of the formflow engine.

It defines the closed set of screens, the flows connecting them, the data
entered on forms and the outcome of validating that data. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Route: A single screen of the navigation graph (Home, Tutorial, FormA, ...).
  - Flow: A named directed graph restricting which routes may follow which.
  - FormState: The value entered on a form; copied, never shared.
  - ValidationOutcome: Valid, Invalid(message) or Fatal, as a sealed sum type.
  - LifecycleHooks: Callbacks fired on route changes and validation runs.
*/
package domain
