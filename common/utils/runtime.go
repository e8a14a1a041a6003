package utils

import (
	"runtime"
	"strings"
)

// GetCallerFunctionName returns the short name of a function on the call stack.
// skip counts frames as runtime.Callers does.
func GetCallerFunctionName(skip int) string {
	pc := make([]uintptr, 1)
	if runtime.Callers(skip, pc) == 0 {
		return "<unknown>"
	}
	frame, _ := runtime.CallersFrames(pc).Next()
	if frame.Function == "" {
		return "<unknown>"
	}
	name := frame.Function
	if i := strings.LastIndexByte(name, '.'); i != -1 {
		name = name[i+1:]
	}
	return name
}
