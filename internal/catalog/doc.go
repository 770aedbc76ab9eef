// Package catalog guards the structure of the category hierarchy.
//
// A Tree is built once per request from the full category set and answers every
// structural question (descendants, valid parents, selectable parents, deletability)
// from its in-memory adjacency map without further storage round-trips.
package catalog
