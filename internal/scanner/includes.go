package scanner

import (
	"regexp"
	"strings"
)

// Includes cannot appear inside literals that survive normalization, so
// this pattern runs against raw text.
var includeRe = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*include[ \t]+([<"])([^>"]+)[>"]`)

// DefaultSystemPrefixes covers the C and C++ standard libraries, POSIX,
// common platform SDKs and widespread third-party headers. An include
// whose path starts with one of these is treated as out of project scope
// unless IncludeSystem is set.
var DefaultSystemPrefixes = []string{
	// C standard library
	"stdio", "stdlib", "string", "math", "time", "ctype", "errno",
	"limits", "stdbool", "stdint", "stddef", "stdarg", "signal",
	"assert", "locale", "setjmp", "float", "iso646", "wchar", "wctype",
	// POSIX
	"sys/", "unistd", "fcntl", "pthread", "dirent", "termios",
	// C++ standard library
	"iostream", "fstream", "sstream", "iomanip", "vector", "list",
	"map", "set", "unordered_map", "unordered_set", "array", "deque",
	"queue", "stack", "algorithm", "functional", "iterator", "memory",
	"utility", "tuple", "type_traits", "chrono", "ratio", "thread",
	"mutex", "condition_variable", "future", "atomic", "regex",
	"random", "numeric", "complex", "valarray", "bitset", "initializer_list",
	"typeinfo", "typeindex", "exception", "stdexcept", "new",
	"climits", "cfloat", "cstdint", "cstddef", "cstdlib", "cstring",
	"cmath", "ctime", "cctype", "cerrno", "cassert", "cstdio", "cstdarg",
	"csignal", "clocale", "csetjmp", "cwchar", "cwctype", "cuchar",
	"cinttypes", "cfenv", "filesystem", "optional", "variant", "any",
	"string_view", "charconv", "execution", "span", "ranges", "format",
	"source_location", "compare", "version", "numbers", "bit", "concepts",
	"coroutine", "semaphore", "latch", "barrier", "stop_token",
	// Platform specific
	"windows", "Windows", "win32", "Win32", "windef", "winbase",
	"OpenCL/", "CL/", "cuda", "CUDA", "vulkan", "Vulkan",
	"gl/", "GL/", "glm/", "GLFW/", "SDL", "X11/", "Cocoa/",
	// Common third-party
	"boost/", "gtest/", "gmock/", "catch", "doctest", "json",
	"rapidjson/", "nlohmann/", "fmt/", "spdlog/", "eigen", "Eigen/",
}

// IsSystemHeader reports whether the include path matches the system
// header prefix allow-list.
func IsSystemHeader(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// parseIncludes extracts #include directives from raw file text in
// order of appearance. Bracketed system headers on the allow-list are
// discarded unless includeSystem is set; quoted includes are always
// kept.
func parseIncludes(raw string, includeSystem bool, prefixes []string) []Include {
	var includes []Include
	for _, m := range includeRe.FindAllStringSubmatch(raw, -1) {
		system := m[1] == "<"
		path := m[2]

		if system && !includeSystem && IsSystemHeader(path, prefixes) {
			continue
		}

		includes = append(includes, Include{Path: path, System: system})
	}
	return includes
}
