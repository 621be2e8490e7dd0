// Where: cli/internal/usecase/generate/driver.go
// What: Assembly scan driver turning methods into function schemas.
// Why: Isolate per-method failures so one bad function never blocks its siblings.
package generate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/domain/binding"
	"github.com/poruru/fnsdk/cli/internal/domain/catalog"
	"github.com/poruru/fnsdk/cli/internal/domain/function"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

const ctorName = ".ctor"

// Entry is one scanned function. A nil Schema marks a failed candidate.
type Entry struct {
	Name   string
	Method *metadata.Method
	Schema *function.Schema
}

// Failed reports whether the candidate could not be materialized.
func (e Entry) Failed() bool {
	return e.Schema == nil
}

// SettingsChecker cross-references a schema with local settings.
type SettingsChecker interface {
	Check(schema *function.Schema, name string, logger ports.Logger)
}

// Driver scans types for functions.
type Driver struct {
	Assembler function.Assembler
	Logger    ports.Logger
	Settings  SettingsChecker
	// ScriptFile maps the defining assembly to the scriptFile value.
	ScriptFile func(asm *metadata.Assembly) string
}

// names tracks function names already claimed in one scan, ignoring case.
type names struct {
	index map[string]int
}

func (n *names) claim(name string, at int) (int, bool) {
	if n.index == nil {
		n.index = map[string]int{}
	}
	key := strings.ToLower(name)
	if prev, taken := n.index[key]; taken {
		return prev, false
	}
	n.index[key] = at
	return at, true
}

// Scan visits every public method of the supplied types in order.
func (d Driver) Scan(types []*metadata.Type) []Entry {
	var entries []Entry
	claimed := &names{}
	for _, t := range types {
		for _, m := range t.Methods {
			if !m.Public || m.Name == ctorName {
				continue
			}
			entry, candidate := d.scanMethod(m)
			if !candidate {
				continue
			}
			if !entry.Failed() {
				prev, ok := claimed.claim(entry.Name, len(entries))
				if ok {
					d.checkSettings(entry)
				} else {
					d.duplicate(entries[prev].Method, m)
					entries[prev].Schema = nil
					entry.Schema = nil
				}
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

// Succeeded reports whether every candidate produced a schema.
func Succeeded(entries []Entry) bool {
	for _, e := range entries {
		if e.Failed() {
			return false
		}
	}
	return true
}

func (d Driver) scanMethod(m *metadata.Method) (entry Entry, candidate bool) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(m, fmt.Errorf("panic: %v", r))
			entry, candidate = Entry{Method: m}, true
		}
	}()

	if err := function.CheckSupported(m, d.Assembler.Types); err != nil {
		d.Logger.Error(err.Error())
		return Entry{Method: m}, true
	}

	switch {
	case function.IsEligible(m):
		return d.assemble(m), true
	case function.HasFunctionName(m):
		if function.HasNoAutomaticTrigger(m) && binding.HasTriggerParam(m) {
			d.Logger.Warn(fmt.Sprintf("Method %s has both a 'NoAutomaticTrigger' attribute and a trigger attribute. Both can't be used together for an Azure function definition.", m.FullName()))
		} else {
			d.Logger.Warn(fmt.Sprintf("Method %s is missing a trigger attribute. Both a trigger attribute and FunctionName attribute are required for an Azure function definition.", m.FullName()))
		}
	case binding.HasBindingParam(m):
		d.Logger.Warn(fmt.Sprintf("Method %s is missing the 'FunctionName' attribute. Both a trigger attribute and 'FunctionName' are required for an Azure function definition.", m.FullName()))
	}
	return Entry{}, false
}

func (d Driver) assemble(m *metadata.Method) Entry {
	entry := Entry{Method: m}
	name, err := function.Name(m)
	if err != nil {
		d.fail(m, err)
		return entry
	}
	if err := function.ValidateName(name); err != nil {
		d.Logger.Error(fmt.Sprintf("%s: %s", m.FullName(), err.Error()))
		return entry
	}
	entry.Name = name

	script := ""
	if d.ScriptFile != nil && m.DeclaringType != nil {
		script = d.ScriptFile(m.DeclaringType.Assembly)
	}
	schema, err := d.Assembler.Assemble(m, script)
	if err != nil {
		var property *binding.UnsupportedPropertyError
		var ctor *catalog.UnsupportedConstructorError
		if errors.As(err, &property) || errors.As(err, &ctor) {
			d.Logger.Error(fmt.Sprintf("Function %s: %s", name, err.Error()))
			return entry
		}
		d.fail(m, err)
		return entry
	}
	entry.Schema = schema
	return entry
}

func (d Driver) checkSettings(entry Entry) {
	if d.Settings != nil {
		d.Settings.Check(entry.Schema, entry.Name, d.Logger)
	}
}

func (d Driver) duplicate(first, second *metadata.Method) {
	d.Logger.Error(fmt.Sprintf("Function %s and %s have the same value for FunctionNameAttribute. Each function must have a unique name.",
		first.FullName(), second.FullName()))
}

func (d Driver) fail(m *metadata.Method, err error) {
	d.Logger.Error(fmt.Sprintf("Unable to generate function metadata for %s", m.FullName()))
	d.Logger.ErrorDetail(err)
}
