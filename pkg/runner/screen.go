package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/i18n"
)

// RenderScreen writes view as Markdown. flows are listed on the Home screen.
func RenderScreen(v formflow.View, tr *i18n.Translator, flows []domain.Flow) string {
	if tr == nil {
		tr = i18n.Default()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", v.Title)
	if v.FlowTitle != "" && v.Route != domain.RouteHome {
		fmt.Fprintf(&sb, "_%s_\n\n", v.FlowTitle)
	}

	switch v.Route {
	case domain.RouteHome:
		fmt.Fprintf(&sb, "## %s\n\n", tr.Text("ui_choose_flow", "Choose a flow"))
		for i, f := range flows {
			fmt.Fprintf(&sb, "%d. **%s**: %s\n", i+1, tr.FlowTitle(f), tr.FlowDescription(f))
		}
	case domain.RouteTutorial:
		sb.WriteString(tr.Text("ui_tutorial_body", "How it works") + "\n")
	case domain.RouteFormA, domain.RouteFormB:
		form, _ := domain.FormForRoute(v.Route)
		renderForm(&sb, v, form, tr)
	case domain.RoutePreview, domain.RouteResult:
		renderInputs(&sb, v, tr)
	case domain.RouteError:
		fmt.Fprintf(&sb, "> %s\n", quote(v.ErrorMessage))
	}

	renderActions(&sb, v, tr)
	return sb.String()
}

func renderForm(sb *strings.Builder, v formflow.View, form domain.Form, tr *i18n.Translator) {
	key := "ui_" + form.String()
	fmt.Fprintf(sb, "%s\n\n", tr.Text(key+"_hint", ""))
	fmt.Fprintf(sb, "%s %s\n\n", tr.Text("ui_sentinels", "Special inputs:"), tr.Text(key+"_sentinels", ""))

	if form == domain.FormB && v.PreviousData != nil && v.PreviousData.TextInput != "" {
		fmt.Fprintf(sb, "- %s: `%s`\n", tr.Text("ui_form_a_input", "Form A input"), v.PreviousData.TextInput)
	}
	if text := v.Forms[form].TextInput; text != "" {
		fmt.Fprintf(sb, "- %s: `%s`\n", tr.Text("ui_current_input", "Current input"), text)
	}
	if v.Loading {
		fmt.Fprintf(sb, "\n_%s_\n", tr.Text("ui_validating", "Checking..."))
	}
	if v.InlineError != "" {
		fmt.Fprintf(sb, "\n> **%s**\n", quote(v.InlineError))
	}
}

func renderInputs(sb *strings.Builder, v formflow.View, tr *i18n.Translator) {
	if len(v.Forms) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s\n\n", tr.Text("ui_inputs", "Entered values:"))
	for _, f := range domain.AllForms {
		state, ok := v.Forms[f]
		if !ok {
			continue
		}
		label := tr.Text("ui_"+f.String()+"_input", f.String())
		fmt.Fprintf(sb, "- %s: `%s`\n", label, state.TextInput)
	}
}

func renderActions(sb *strings.Builder, v formflow.View, tr *i18n.Translator) {
	sb.WriteString("\n---\n\n")

	if v.Route != domain.RouteHome && !v.Route.IsForm() {
		for i, b := range v.Buttons {
			fmt.Fprintf(sb, "%d. %s\n", i+1, b.Title)
		}
		if len(v.Buttons) > 0 {
			fmt.Fprintf(sb, "\n`Enter` %s\n", tr.Text("ui_next", "Next"))
		}
	}

	var cmds []string
	add := func(name, id, fallback string) {
		cmds = append(cmds, fmt.Sprintf("`:%s` %s", name, tr.Text(id, fallback)))
	}
	switch v.Route {
	case domain.RouteHome:
	case domain.RouteError:
		add(CmdRoot, "ui_close", "Close")
	default:
		add(CmdBack, "ui_back", "Back")
		if v.Route == domain.RoutePreview {
			add(CmdRedo, "ui_redo", "Redo input")
			add(CmdFail, "ui_to_error", "Go to error screen")
		}
		if v.Route != domain.RouteTutorial {
			add(CmdFirst, "ui_to_start", "Back to start")
		}
		add(CmdRoot, "ui_to_home", "Back to Home")
	}
	add(CmdQuit, "ui_quit", "Quit")

	fmt.Fprintf(sb, "%s %s\n", tr.Text("ui_commands", "Commands:"), strings.Join(cmds, " · "))
}

func quote(s string) string {
	return strings.ReplaceAll(s, "\n", "\n> ")
}
