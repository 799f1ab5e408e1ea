// Package datetime provides the get_current_datetime tool, which reads the
// system clock and formats it as "YYYY-MM-DD HH:MM:SS".
package datetime
