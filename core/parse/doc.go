// Package parse decodes LLM-supplied tool-call argument payloads into
// argument maps, repairing almost-JSON with jsonrepair and degrading to an
// empty map when the payload is beyond repair.
package parse
