// Package textops provides the count_words and reverse_text tools.
package textops
