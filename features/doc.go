// Package features runs the checkout acceptance scenarios written in Gherkin.
package features
