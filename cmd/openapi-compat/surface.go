package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var httpMethods = map[string]struct{}{
	"get": {}, "put": {}, "post": {}, "delete": {}, "patch": {}, "head": {}, "options": {},
}

// surface maps "METHOD /path" to the set of documented response codes.
type surface map[string]map[string]struct{}

type document struct {
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

type operationDoc struct {
	Responses map[string]yaml.Node `yaml:"responses"`
}

// parseSurface reads a swagger 2.0 or OpenAPI 3 document in YAML or JSON.
func parseSurface(raw []byte) (surface, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	out := make(surface)
	for path, item := range doc.Paths {
		for method, node := range item {
			method = strings.ToLower(strings.TrimSpace(method))
			if _, ok := httpMethods[method]; !ok {
				continue
			}
			var op operationDoc
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(method), path, err)
			}
			codes := make(map[string]struct{}, len(op.Responses))
			for code := range op.Responses {
				codes[strings.ToLower(strings.TrimSpace(code))] = struct{}{}
			}
			out[strings.ToUpper(method)+" "+path] = codes
		}
	}
	return out, nil
}

// compare lists what revision removed relative to base, sorted.
func compare(base, revision surface) []string {
	var issues []string
	for op, codes := range base {
		revCodes, ok := revision[op]
		if !ok {
			issues = append(issues, "removed operation: "+op)
			continue
		}
		for code := range codes {
			if _, ok := revCodes[code]; !ok {
				issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", op, strings.ToUpper(code)))
			}
		}
	}
	sort.Strings(issues)
	return issues
}

// additions lists operations present only in revision, sorted.
func additions(base, revision surface) []string {
	var added []string
	for op := range revision {
		if _, ok := base[op]; !ok {
			added = append(added, op)
		}
	}
	sort.Strings(added)
	return added
}
