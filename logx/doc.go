// Package logx provides the leveled logger used by mockup2html.
//
// Environment Variables:
//   - LOG_LEVEL: minimum level (TRACE, DEBUG, INFO, WARN, ERROR, OFF)
//   - LOG_FORMAT: console (default) or json
//   - LOG_COLOR: colored level names, default true
//   - LOG_CALLER: file:line of the caller, default true
//
// Usage:
//
//	logx.Info("Upload is %d%% done", 40)
//	logx.Error("image not uploaded because %v", err)
//	logx.DebugStruct("predictions", predictions)
//
// At DEBUG and TRACE, arguments are rendered with DebugFormatter so structs
// print field by field. Large byte slices (image payloads) are summarised.
package logx
