// Package util holds small filesystem helpers.
package util
