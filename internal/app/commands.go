package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"nagctl/internal/engine"
	"nagctl/internal/extcmd"
	"nagctl/internal/fatal"
	"nagctl/internal/templatefmt"
)

// invocation carries everything a handler needs besides the match result.
type invocation struct {
	words  []string
	scope  engine.Scope
	issued time.Time
	author string
	out    io.Writer
	search searchTemplates
}

// generator turns the association into command lines (search prints instead).
type generator func(assoc *engine.Association) ([]string, error)

// handler validates the invocation before any object is loaded.
type handler func(inv invocation) (generator, error)

// commandTable is the phrase -> handler table resolved by the fuzzy resolver.
var commandTable = engine.CommandTable[handler]{
	"search":                searchObjects,
	"enable notifications":  toggleNotifications,
	"disable notifications": toggleNotifications,
	"enable checks":         toggleChecks,
	"disable checks":        toggleChecks,
	"schedule downtime":     scheduleDowntime,
	"schedule checks":       scheduleCheck,
	"reschedule checks":     scheduleCheck,
	"acknowledge problems":  acknowledgeProblem,
}

type searchTemplates struct {
	all     *template.Template
	host    *template.Template
	service *template.Template
}

func searchObjects(inv invocation) (generator, error) {
	if len(inv.words) > 1 {
		return nil, unrecognized("search", inv.words[1:])
	}
	return func(assoc *engine.Association) ([]string, error) {
		return nil, renderSearch(inv, assoc)
	}, nil
}

func renderSearch(inv invocation, assoc *engine.Association) error {
	var rows []templatefmt.SearchRow
	var tmpl *template.Template
	switch inv.scope {
	case engine.ScopeAll:
		tmpl = inv.search.all
		for _, link := range assoc.Links() {
			names := make([]string, 0, len(link.Services))
			for _, service := range link.Services {
				names = append(names, service.Name())
			}
			rows = append(rows, templatefmt.SearchRow{Host: link.Host.Name(), Services: names})
		}
	case engine.ScopeHost:
		tmpl = inv.search.host
		for _, host := range assoc.Hosts() {
			rows = append(rows, templatefmt.SearchRow{Host: host.Name()})
		}
	case engine.ScopeService:
		tmpl = inv.search.service
		for _, name := range assoc.ServiceNames() {
			rows = append(rows, templatefmt.SearchRow{Service: name})
		}
	}

	if len(rows) == 0 && inv.scope == engine.ScopeService {
		if _, err := io.WriteString(inv.out, "\n"); err != nil {
			return fatal.Wrap(fatal.KindIO, err, "Cannot write search output")
		}
		return nil
	}
	for _, row := range rows {
		if err := tmpl.Execute(inv.out, row); err != nil {
			return fatal.Wrap(fatal.KindIO, err, "Cannot render search output")
		}
		if _, err := io.WriteString(inv.out, "\n"); err != nil {
			return fatal.Wrap(fatal.KindIO, err, "Cannot write search output")
		}
	}
	return nil
}

func toggleNotifications(inv invocation) (generator, error) {
	if len(inv.words) > 2 {
		return nil, unrecognized(inv.words[0]+" notifications", inv.words[2:])
	}
	toggle, err := extcmd.ParseToggle(inv.words[0])
	if err != nil {
		return nil, fatal.Wrap(fatal.KindUsage, err, "")
	}
	return forEachObject(inv.scope,
		func(host string) string { return extcmd.HostNotifications(toggle, host) },
		func(host, service string) string { return extcmd.ServiceNotifications(toggle, host, service) },
	), nil
}

func toggleChecks(inv invocation) (generator, error) {
	if len(inv.words) > 2 {
		return nil, unrecognized(inv.words[0]+" checks", inv.words[2:])
	}
	toggle, err := extcmd.ParseToggle(inv.words[0])
	if err != nil {
		return nil, fatal.Wrap(fatal.KindUsage, err, "")
	}
	return forEachObject(inv.scope,
		func(host string) string { return extcmd.HostCheck(toggle, host) },
		func(host, service string) string { return extcmd.ServiceCheck(toggle, host, service) },
	), nil
}

func scheduleDowntime(inv invocation) (generator, error) {
	if len(inv.words) > 4 {
		return nil, unrecognized("schedule downtime", inv.words[2:])
	}
	if len(inv.words) < 4 {
		return nil, fatal.New(fatal.KindMissingArgument, "Missing required command parameters: comment or duration")
	}
	duration, err := parseSeconds(inv.words[2])
	if err != nil {
		return nil, err
	}
	window := extcmd.Downtime{Start: inv.issued, Duration: duration, Author: inv.author, Comment: inv.words[3]}
	return forEachObject(inv.scope,
		func(host string) string { return extcmd.HostDowntime(host, window) },
		func(host, service string) string { return extcmd.ServiceDowntime(host, service, window) },
	), nil
}

func scheduleCheck(inv invocation) (generator, error) {
	if len(inv.words) > 3 {
		return nil, unrecognized("schedule check", inv.words[2:])
	}
	if len(inv.words) < 3 {
		return nil, fatal.New(fatal.KindMissingArgument, "Missing required command parameters: time")
	}
	offset, err := parseSeconds(inv.words[2])
	if err != nil {
		return nil, err
	}
	at := extcmd.CheckTime(inv.issued, offset)
	return forEachObject(inv.scope,
		func(host string) string { return extcmd.HostCheckSchedule(host, at) },
		func(host, service string) string { return extcmd.ServiceCheckSchedule(host, service, at) },
	), nil
}

func acknowledgeProblem(inv invocation) (generator, error) {
	if len(inv.words) > 3 {
		return nil, unrecognized("acknowledge problems", inv.words[2:])
	}
	if len(inv.words) < 3 {
		return nil, fatal.New(fatal.KindMissingArgument, "Missing required command parameters: comment")
	}
	ack := extcmd.Acknowledgement{Author: inv.author, Comment: inv.words[2]}
	return forEachObject(inv.scope,
		func(host string) string { return extcmd.HostAcknowledgement(host, ack) },
		func(host, service string) string { return extcmd.ServiceAcknowledgement(host, service, ack) },
	), nil
}

// forEachObject emits host commands first, then host/service commands, per scope.
// Params: scope and formatters for both object kinds.
// Returns: generator over the association.
func forEachObject(scope engine.Scope, hostCmd func(string) string, serviceCmd func(string, string) string) generator {
	return func(assoc *engine.Association) ([]string, error) {
		var commands []string
		if scope.IncludesHosts() {
			for _, host := range assoc.Hosts() {
				commands = append(commands, hostCmd(host.Name()))
			}
		}
		if scope.IncludesServices() {
			for _, link := range assoc.Links() {
				for _, service := range link.Services {
					commands = append(commands, serviceCmd(link.Host.Name(), service.Name()))
				}
			}
		}
		return commands, nil
	}
}

func unrecognized(command string, extra []string) error {
	return fatal.New(fatal.KindUsage, "Unrecognized %s parameters: %s", command, strings.Join(extra, " "))
}

func parseSeconds(raw string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fatal.New(fatal.KindInvalidArgument, "Invalid parameter: %s", raw)
	}
	return value, nil
}

// resolveScope maps the typed selector onto host/service/all.
// Params: typed selector token (may be abbreviated).
// Returns: scope or not-found/ambiguous failure.
func resolveScope(selector string) (engine.Scope, error) {
	names := engine.ScopeNames()
	matches := engine.Disambiguate([]string{selector}, engine.Names(names))
	switch len(matches) {
	case 1:
		return engine.ParseScope(matches[0])
	case 0:
		return "", fatal.New(fatal.KindNotFound, "No '%s' selector found", selector).
			WithDetails(validList("Valid selectors are:", names)...)
	default:
		return "", fatal.New(fatal.KindAmbiguous, "Not sure which selector you mean:").WithDetails(matches...)
	}
}

// resolveCommand expands abbreviated command tokens to the canonical phrase.
// Params: command tokens (selector removed) and resolved scope.
// Returns: tokens with canonical words substituted, handler, or failure.
func resolveCommand(tokens []string, scope engine.Scope) ([]string, handler, error) {
	matches := engine.Disambiguate(tokens, commandTable)
	switch len(matches) {
	case 1:
		phrase := matches[0]
		canonical := strings.Fields(phrase)
		words := append([]string{}, canonical...)
		if len(tokens) > len(canonical) {
			words = append(words, tokens[len(canonical):]...)
		}
		return words, commandTable[phrase], nil
	case 0:
		return nil, nil, fatal.New(fatal.KindNotFound, "No '%s' command found", strings.Join(tokens, " ")).
			WithDetails(validList("Valid commands are:", commandTable.Phrases())...)
	default:
		lines := make([]string, 0, len(matches))
		for _, phrase := range matches {
			words := strings.Fields(phrase)
			lines = append(lines, strings.TrimRight(fmt.Sprintf("  %s %s %s", words[0], scope, strings.Join(words[1:], " ")), " "))
		}
		return nil, nil, fatal.New(fatal.KindAmbiguous, "Not sure which command you mean:").WithDetails(lines...)
	}
}

func validList(header string, values []string) []string {
	lines := make([]string, 0, len(values)+1)
	lines = append(lines, header)
	for _, value := range values {
		lines = append(lines, "  "+value)
	}
	return lines
}
