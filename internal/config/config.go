// Package config derives the search and augment phase configurations from their parsed options
// and renders them for logs and reports.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DataPath is the directory datasets are read from in both phases.
const DataPath = "./data/"

// Config is a fully derived phase configuration.
type Config interface {
	// Params lists every option and derived value, sorted by name.
	Params() []Param
	// PrintParams writes the parameter dump through prtf, or to stdout when prtf is nil.
	PrintParams(prtf PrintFunc)
	// AsMarkdown renders the parameters as a two-column markdown table.
	AsMarkdown() string
	// Printable returns the JSON form of the configuration.
	Printable() ([]byte, error)
}

// PrintFunc writes one line of output.
type PrintFunc func(line string)

// Stdout prints each line to standard output.
func Stdout(line string) {
	fmt.Println(line)
}

// WriterPrinter returns a PrintFunc writing each line to w.
func WriterPrinter(w io.Writer) PrintFunc {
	return func(line string) {
		fmt.Fprintln(w, line)
	}
}

// Param is one named value of a configuration.
type Param struct {
	Name  string
	Value string
}

// params lists the json-tagged fields of the struct cfg points to, sorted case-insensitively.
func params(cfg interface{}) []Param {
	v := reflect.Indirect(reflect.ValueOf(cfg))
	t := v.Type()

	ps := make([]Param, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		ps = append(ps, Param{Name: name, Value: formatValue(v.Field(i))})
	}

	sort.SliceStable(ps, func(i, j int) bool {
		return strings.ToLower(ps[i].Name) < strings.ToLower(ps[j].Name)
	})
	return ps
}

func printParams(ps []Param, prtf PrintFunc) {
	if prtf == nil {
		prtf = Stdout
	}
	prtf("")
	prtf("Parameters:")
	for _, p := range ps {
		prtf(fmt.Sprintf("%s=%s", strings.ToUpper(p.Name), p.Value))
	}
	prtf("")
}

func asMarkdown(ps []Param) string {
	var sb strings.Builder
	sb.WriteString("|name|value|  \n|-|-|  \n")
	for _, p := range ps {
		fmt.Fprintf(&sb, "|%s|%s|  \n", p.Name, p.Value)
	}
	return sb.String()
}

func printable(cfg interface{}) ([]byte, error) {
	bs, err := json.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert config to JSON")
	}
	return bs, nil
}
