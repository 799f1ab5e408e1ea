// Package tool defines the Tool type, a named handler paired with the JSON
// Schema its arguments are validated against, and the Registry that
// advertises the tool catalog to providers and dispatches model-requested
// calls, normalizing every outcome to a display-safe string.
package tool
