// Package normalisers holds driven.Normaliser implementations that clean
// note text before it is embedded.
package normalisers
