// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Well-known timestamp columns.
const (
	ColumnUpdatedAt = "updated_at"
	ColumnCreatedAt = "created_at"
)

// TableSet is the ordered list of sync-eligible tables. A table is never
// listed before a table it references, so merge inserts parents first.
// Timestamped tables carry updated_at and get last-writer-wins; the rest are
// append-only.
type TableSet struct {
	order       []string
	timestamped map[string]struct{}
}

// NewTableSet builds a TableSet from an ordered list and the names of the
// timestamped tables. Timestamped names not in order are ignored.
func NewTableSet(order []string, timestamped ...string) TableSet {
	ts := TableSet{
		order:       append([]string(nil), order...),
		timestamped: make(map[string]struct{}, len(timestamped)),
	}
	for _, t := range timestamped {
		if ts.Contains(t) {
			ts.timestamped[t] = struct{}{}
		}
	}
	return ts
}

// DefaultTableSet is the contractor application's sync table set.
func DefaultTableSet() TableSet {
	return NewTableSet([]string{
		"categories",
		"suppliers",
		"users",
		"hats",
		"hat_permissions",
		"user_hats",
		"parts",
		"part_suppliers",
		"brands",
		"part_variants",
		"parts_lists",
		"parts_list_items",
		"trucks",
		"jobs",
		"job_assignments",
		"bro_categories",
		"billing_cycles",
		"purchase_orders",
		"purchase_order_items",
		"receive_log",
		"truck_transfers",
		"truck_inventory",
		"labor_entries",
		"consumption_log",
		"job_parts",
		"return_authorizations",
		"return_items",
		"notebook_sections",
		"notebook_pages",
		"notebook_attachments",
		"job_updates",
		"activity_log",
		"notifications",
	},
		"parts", "jobs", "users", "trucks", "suppliers", "categories",
		"purchase_orders", "purchase_order_items", "labor_entries",
		"notebook_pages",
	)
}

// Tables returns the tables in merge order.
func (s TableSet) Tables() []string {
	return append([]string(nil), s.order...)
}

// Reversed returns the tables children-first, for deletes.
func (s TableSet) Reversed() []string {
	out := make([]string, len(s.order))
	for i, t := range s.order {
		out[len(s.order)-1-i] = t
	}
	return out
}

// Contains reports whether table is sync-eligible.
func (s TableSet) Contains(table string) bool {
	for _, t := range s.order {
		if t == table {
			return true
		}
	}
	return false
}

// IsTimestamped reports whether table gets last-writer-wins treatment.
func (s TableSet) IsTimestamped(table string) bool {
	_, ok := s.timestamped[table]
	return ok
}

// Len returns the number of tables.
func (s TableSet) Len() int { return len(s.order) }
