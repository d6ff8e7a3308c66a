/*
Package validation provides the concrete validators used by the shipped forms.

A validator is an ordered chain of Rules followed by a table of Sentinels.
Rules are structural checks evaluated in order against the trimmed input; the
first failing rule wins and its message is returned as domain.Invalid. When
every rule passes, the sentinel table maps reserved literals to a fixed outcome
so the Invalid and Fatal branches can be exercised deterministically.

Validators are pure: they hold no mutable state and may be shared by any
number of sessions.
*/
package validation
