package softgl

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	mainRe    = regexp.MustCompile(`void\s+main\s*\(\s*\)`)
	uniformRe = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*;`)
	inRe      = regexp.MustCompile(`(?m)^\s*in\s+(\w+)\s+(\w+)\s*;`)
	outRe     = regexp.MustCompile(`(?m)^\s*out\s+(\w+)\s+(\w+)\s*;`)
)

// checkSource is a structural check, not a GLSL parser: it catches unbalanced
// brackets, a missing entry point and a missing version line.
func checkSource(src string) string {

	if !strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return "0:1(1): error: missing #version directive"
	}

	pairs := []struct{ open, close rune }{{'{', '}'}, {'(', ')'}, {'[', ']'}}
	for _, pair := range pairs {
		depth := 0
		for line, text := range strings.Split(src, "\n") {
			for _, r := range text {
				switch r {
				case pair.open:
					depth++
				case pair.close:
					depth--
				}
				if depth < 0 {
					return fmt.Sprintf("0:%d(1): error: syntax error, unexpected '%c'", line+1, pair.close)
				}
			}
		}
		if depth != 0 {
			return fmt.Sprintf("0:1(1): error: syntax error, unmatched '%c'", pair.open)
		}
	}

	if !mainRe.MatchString(src) {
		return "0:1(1): error: function `main' is not defined"
	}

	return ""
}

type declaration struct {
	typ  string
	name string
}

func declarations(re *regexp.Regexp, src string) []declaration {
	var decls []declaration
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		decls = append(decls, declaration{typ: m[1], name: m[2]})
	}
	return decls
}

// linkStages checks the interface between the stages and collects the uniforms
// of both. Uniform locations follow name order.
func linkStages(vertexSrc string, fragmentSrc string) (map[string]*uniform, string) {

	outputs := make(map[string]string)
	for _, decl := range declarations(outRe, vertexSrc) {
		outputs[decl.name] = decl.typ
	}

	for _, decl := range declarations(inRe, fragmentSrc) {
		typ, ok := outputs[decl.name]
		if !ok {
			return nil, fmt.Sprintf("error: fragment shader input `%s' has no matching vertex shader output", decl.name)
		}
		if typ != decl.typ {
			return nil, fmt.Sprintf("error: `%s' declared as type `%s' in vertex and `%s' in fragment", decl.name, typ, decl.typ)
		}
	}

	uniforms := make(map[string]*uniform)
	for _, src := range []string{vertexSrc, fragmentSrc} {
		for _, decl := range declarations(uniformRe, src) {
			if prev, ok := uniforms[decl.name]; ok && prev.typ != decl.typ {
				return nil, fmt.Sprintf("error: uniform `%s' declared as `%s' and `%s'", decl.name, prev.typ, decl.typ)
			}
			uniforms[decl.name] = &uniform{name: decl.name, typ: decl.typ}
		}
	}

	names := make([]string, 0, len(uniforms))
	for name := range uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		uniforms[name].loc = int32(i)
	}

	return uniforms, ""
}
