/*
Package runner implements the interactive terminal loop for a formflow Engine.

It acts as the bridge between the Engine and a line-oriented user: every turn
the current screen is rendered, one line is read and turned into an Engine
operation. Plain text is typed into the form on screen and submitted; on other
screens an empty line follows the first allowed route and a number picks a
button. Commands start with a colon:

	:back   :root   :redo   :first   :fail [message]   :quit

Ctrl+C while a form is being checked cancels the check and keeps the session.
At the prompt it ends the loop.

# Key Components

  - Runner: The loop itself.
  - IOHandler: Decouples how screens are shown and lines are read (Text, JSON).
  - TextHandler: A standard implementation for interactive CLI usage.

# Usage

	eng, _ := formflow.New()
	r := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
