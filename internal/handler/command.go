package handler

import (
	"bytes"
	"sort"
	"text/template"

	"github.com/easeaico/her-line/internal/persona"
	"github.com/easeaico/her-line/internal/types"
	"github.com/easeaico/her-line/internal/utils"
)

const (
	tplPong     = "pong"
	tplDebugOn  = "debug_on"
	tplDebugOff = "debug_off"
	tplSwitched = "switched"
	tplWho      = "who"
)

// defaultTemplates defines the fixed confirmations of each command.
var defaultTemplates = template.Must(template.New("commands").Parse(`
{{- define "pong"}}(system) pong{{end}}
{{- define "debug_on"}}(system) debug: ON{{end}}
{{- define "debug_off"}}(system) debug: OFF{{end}}
{{- define "switched"}}(system) {{.DisplayName}}に切替えたよ！{{end}}
{{- define "who"}}(system) 現在は「{{.DisplayName}}」です{{end}}
`))

// StateUpdater serializes per-user state mutation.
type StateUpdater interface {
	Update(userID string, fn func(state *types.UserState)) types.UserState
}

type commandFunc func(userID string) string

// CommandHandler intercepts reserved control commands before the reply
// pipeline runs.
type CommandHandler struct {
	personas *persona.Registry
	states   StateUpdater
	routes   map[string]commandFunc
}

// NewCommandHandler builds the command table, including the switch aliases
// of every registered persona.
func NewCommandHandler(personas *persona.Registry, states StateUpdater) *CommandHandler {
	h := &CommandHandler{
		personas: personas,
		states:   states,
		routes:   make(map[string]commandFunc),
	}

	h.routes["/ping"] = func(string) string { return render(tplPong, nil) }
	h.routes["/debug on"] = func(userID string) string { return h.setDebug(userID, true) }
	h.routes["/debug off"] = func(userID string) string { return h.setDebug(userID, false) }
	h.routes["/who"] = h.who
	h.routes["who?"] = h.who

	for _, name := range personas.Names() {
		switchTo := h.switcher(name)
		h.routes["/set "+name] = switchTo
		h.routes["set:"+name] = switchTo
		h.routes["/"+name] = switchTo
	}
	return h
}

// TryDispatch runs the command named by text, if any, and returns its
// confirmation. text is normalized again, so raw input is accepted too.
func (h *CommandHandler) TryDispatch(text, userID string) (string, bool) {
	cmd, ok := h.routes[utils.NormalizeCommand(text)]
	if !ok {
		return "", false
	}
	return cmd(userID), true
}

// Commands returns the recognized command tokens, sorted.
func (h *CommandHandler) Commands() []string {
	out := make([]string, 0, len(h.routes))
	for token := range h.routes {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

func (h *CommandHandler) setDebug(userID string, enabled bool) string {
	h.states.Update(userID, func(state *types.UserState) {
		state.Debug = enabled
	})
	if enabled {
		return render(tplDebugOn, nil)
	}
	return render(tplDebugOff, nil)
}

func (h *CommandHandler) switcher(name string) commandFunc {
	return func(userID string) string {
		p, err := h.personas.Set(userID, name)
		if err != nil {
			// Names come from the registry itself.
			p = h.personas.Default()
		}
		return render(tplSwitched, p)
	}
}

func (h *CommandHandler) who(userID string) string {
	p, err := h.personas.Current(userID)
	if err != nil {
		p = h.personas.Default()
	}
	return render(tplWho, p)
}

func render(name string, data any) string {
	var buf bytes.Buffer
	if err := defaultTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "(system) " + name
	}
	return buf.String()
}
