// Package model defines the records stored in a collection.
package model
