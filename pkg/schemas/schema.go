// Package schemas validates configuration files against the JSON schemas of the option sets.
package schemas

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v2"
)

// Schema URLs of the option sets.
const (
	SearchOptionsURL  = "http://darts/schemas/search.json"
	AugmentOptionsURL = "http://darts/schemas/augment.json"
)

//go:embed *.json
var schemaFiles embed.FS

var (
	validatorsMu sync.Mutex
	validators   = map[string]*jsonschema.Schema{}
)

// newCompiler creates a jsonschema.Compiler with all the schemas preloaded.
func newCompiler() *jsonschema.Compiler {
	compiler := jsonschema.NewCompiler()

	entries, err := schemaFiles.ReadDir(".")
	if err != nil {
		panic("unreadable embedded schemas: " + err.Error())
	}
	for _, entry := range entries {
		byts, err := schemaFiles.ReadFile(entry.Name())
		if err != nil {
			panic("unreadable embedded schema: " + entry.Name())
		}
		url := "http://darts/schemas/" + path.Base(entry.Name())
		if err := compiler.AddResource(url, bytes.NewReader(byts)); err != nil {
			panic("invalid schema: " + url)
		}
	}
	return compiler
}

// GetValidator returns the compiled validator for the schema at url, compiling it on first use.
func GetValidator(url string) *jsonschema.Schema {
	validatorsMu.Lock()
	defer validatorsMu.Unlock()

	if validator, ok := validators[url]; ok {
		return validator
	}
	validator, err := newCompiler().Compile(url)
	if err != nil {
		panic("uncompilable schema: " + url)
	}
	validators[url] = validator
	return validator
}

// ValidateYAML validates YAML (or JSON) bytes against the schema at url and returns one
// user-facing error per violation.
func ValidateYAML(url string, byts []byte) []error {
	jsonByts, err := jsonFromYaml(byts)
	if err != nil {
		return []error{errors.Wrap(err, "cannot convert configuration to json")}
	}
	if err := GetValidator(url).Validate(bytes.NewReader(jsonByts)); err != nil {
		return renderErrors(err)
	}
	return nil
}

// jsonFromYaml takes yaml-formatted bytes and converts them to json-format for the purpose of
// applying json-schema validation.
func jsonFromYaml(byts []byte) ([]byte, error) {
	var blob interface{}
	if err := yaml.Unmarshal(byts, &blob); err != nil {
		return nil, err
	}
	if blob == nil {
		blob = map[string]interface{}{}
	}
	return json.Marshal(blob)
}

// renderErrors flattens a jsonschema validation error into sorted user-facing errors, one per
// leaf cause.
func renderErrors(err error) []error {
	vErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []error{err}
	}

	msgs := leafMessages(vErr)
	sort.Strings(msgs)
	errs := make([]error, len(msgs))
	for i, msg := range msgs {
		errs[i] = errors.New(msg)
	}
	return errs
}

func leafMessages(vErr *jsonschema.ValidationError) []string {
	if len(vErr.Causes) == 0 {
		return []string{fmt.Sprintf("<config>%s: %s", fieldPath(vErr.InstancePtr), vErr.Message)}
	}
	var msgs []string
	for _, cause := range vErr.Causes {
		msgs = append(msgs, leafMessages(cause)...)
	}
	return msgs
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// fieldPath renders the instance pointer of an option file, "#" or "#/batch_size", as "" or
// ".batch_size".
func fieldPath(ptr string) string {
	var sb strings.Builder
	for _, token := range strings.Split(strings.TrimPrefix(ptr, "#"), "/") {
		if token == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(token); err == nil {
			token = unescaped
		}
		sb.WriteString("." + pointerUnescaper.Replace(token))
	}
	return sb.String()
}
