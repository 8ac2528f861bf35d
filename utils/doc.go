// Package utils provides time formatting helpers shared by the API layer.
package utils
