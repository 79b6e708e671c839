package decl

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	arraySuffixRe = regexp.MustCompile(`(\s*\[[^\]]*\])+\s*$`)
	trailingIdent = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*$`)
	funcPtrNameRe = regexp.MustCompile(`\(\s*\*\s*(?:const\s+)?([A-Za-z_][A-Za-z0-9_]*)(?:\s*\[[^\]]*\])*\s*\)\s*\(`)
	wordRe        = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// Words that can end a parameter's type but never name it.
var typeWords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"const": true, "volatile": true, "restrict": true, "struct": true,
	"union": true, "enum": true, "_Bool": true,
}

// Words that qualify or tag a type without being a type or a name.
var qualifierWords = map[string]bool{
	"const": true, "volatile": true, "restrict": true, "struct": true,
	"union": true, "enum": true, "signed": true, "unsigned": true,
}

func isIdent(s string) bool {
	return identRe.MatchString(s)
}

// CallArgs renders the argument list that forwards params unchanged.
func CallArgs(params []Param) string {
	names := lo.Map(params, func(p Param, _ int) string { return p.Name })
	return "(" + strings.Join(names, ", ") + ")"
}

// ParamName returns the identifier a parameter is passed by at a call site.
// Array suffixes and pointer markers are dropped: "int8u* const pa[8]" -> "pa".
// Function-pointer parameters "int (*cb)(void*)" and arrays of them
// "int (*cbs[4])(int)" reduce to the pointer name.
// It returns "" when the parameter carries no name.
func ParamName(param string) string {
	param = collapseSpace(param)
	if m := funcPtrNameRe.FindStringSubmatch(param); m != nil {
		return m[1]
	}
	param = strings.TrimSpace(arraySuffixRe.ReplaceAllString(param, ""))
	if strings.HasSuffix(param, "*") {
		return ""
	}
	m := trailingIdent.FindStringSubmatch(param)
	if m == nil || typeWords[m[1]] {
		return ""
	}
	// A lone type word is a type with the name omitted: "mbx_status",
	// "const int8u", "struct mbx_ctx".
	words := lo.Reject(wordRe.FindAllString(param, -1), func(w string, _ int) bool {
		return qualifierWords[w]
	})
	if len(words) < 2 {
		return ""
	}
	return m[1]
}

// ReduceCallArgs derives the call-argument text from a parenthesized
// parameter list such as "(const int8u* pa[8], int n)" -> "(pa, n)".
func ReduceCallArgs(paramList string) (string, error) {
	params, err := splitParams(paramList, 0)
	if err != nil {
		return "", err
	}
	return CallArgs(params), nil
}

// splitParams breaks a parenthesized parameter list into parameters.
// "()" and "(void)" produce no parameters.
func splitParams(paramList string, line int) ([]Param, error) {
	text := strings.TrimSpace(paramList)
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return nil, malformedf(line, "parameter list %q is not parenthesized", paramList)
	}
	if end, ok := matchClose(text, 0); !ok || end != len(text)-1 {
		return nil, malformedf(line, "parameter list %q is not a single parenthesized group", paramList)
	}

	fields := splitTopLevel(text[1 : len(text)-1])
	if len(fields) == 1 {
		switch collapseSpace(fields[0]) {
		case "", "void":
			return nil, nil
		}
	}

	params := make([]Param, 0, len(fields))
	for i, f := range fields {
		f = collapseSpace(f)
		switch f {
		case "":
			return nil, malformedf(line, "parameter %d is empty in %q", i+1, paramList)
		case "void":
			return nil, malformedf(line, "void must be the only parameter in %q", paramList)
		case "...":
			return nil, malformedf(line, "variadic parameters cannot be forwarded in %q", paramList)
		}
		name := ParamName(f)
		if name == "" {
			return nil, malformedf(line, "parameter %q has no name", f)
		}
		params = append(params, Param{Text: f, Name: name})
	}
	return params, nil
}
