package codegen

import (
	"strings"
	"text/template"

	"go.trai.ch/rybuild/internal/core/domain"
)

var moduleHeader = template.Must(template.New("module").Parse(`#pragma once

#if defined(_WIN32)

	#if defined(RYBUILD_STANDALONE)
		#define {{.}}_MODULE
	#elif defined(COMPILE_MODULE_{{.}})
		#define {{.}}_MODULE __declspec(dllexport)
	#else
		#define {{.}}_MODULE __declspec(dllimport)
	#endif

#elif defined(__GNUC__) || defined(__MINGW32__)

	#if defined(RYBUILD_STANDALONE)
		#define {{.}}_MODULE
	#elif defined(COMPILE_MODULE_{{.}})
		#define {{.}}_MODULE __attribute__((visibility("default")))
	#else
		#define {{.}}_MODULE
	#endif

#endif
`))

// ModuleHeader renders the base generated header that defines the <NAME>_MODULE
// export macro of m.
func ModuleHeader(m *domain.Module) []byte {
	var sb strings.Builder
	_ = moduleHeader.Execute(&sb, strings.ToUpper(m.Name))
	return []byte(sb.String())
}
