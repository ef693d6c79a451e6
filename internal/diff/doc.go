// Package diff aligns two password database trees and classifies every group,
// entry and history version as added, removed, modified or unchanged.
// Groups and entries are matched by ID only; two nodes with different IDs are
// never paired, however similar their fields are.
package diff
