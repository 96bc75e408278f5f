// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/wiredsync/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

// view renders command results for a terminal. Styles degrade to plain text
// when the writer is not a terminal.
type view struct {
	titleStyle lipgloss.Style
	helpStyle  lipgloss.Style
	errorStyle lipgloss.Style
	boxStyle   lipgloss.Style
	now        func() time.Time
}

func newView(out io.Writer) *view {
	r := lipgloss.NewRenderer(out)
	return &view{
		titleStyle: r.NewStyle().Bold(true),
		helpStyle:  r.NewStyle().Faint(true),
		errorStyle: r.NewStyle().Bold(true),
		boxStyle:   r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		now:        time.Now,
	}
}

func (v *view) page(title, data string) string {
	var b strings.Builder

	b.WriteString(v.titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(data) == "" {
		b.WriteString("  -\n")
	} else {
		for _, line := range strings.Split(strings.TrimRight(data, "\n"), "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString(uiDivider)

	return b.String()
}

func (v *view) note(msg string) string {
	return v.helpStyle.Render(msg)
}

func (v *view) usage() string {
	var b strings.Builder
	b.WriteString("usage: wiredsync [flags] <command> [-json] [args]\n\n")
	for _, c := range []struct{ name, help string }{
		{CmdExport, "write this device's package to the shared folder"},
		{CmdImport, "merge every peer package"},
		{CmdSync, "export then import under one folder lock"},
		{CmdSyncSafe, "sync and report the outcome as a status"},
		{CmdStatus, "short sync status"},
		{CmdDetailedStatus, "status with lock, history, schema, and devices"},
		{CmdConflicts + " <file>", "list rows edited on both sides"},
		{CmdForceBreakLock, "remove the shared folder lock"},
		{CmdVerifyTables, "compare the sync table set with the database"},
		{CmdSchema, "check peer schema versions"},
		{CmdWatch, "sync periodically and import on folder changes"},
		{CmdVersion, "print build information"},
	} {
		fmt.Fprintf(&b, "  %-18s %s\n", c.name, c.help)
	}
	return v.page("WIREDSYNC", b.String())
}

func (v *view) exported(path string) string {
	return v.page("EXPORT", "Written: "+path)
}

func (v *view) summary(title string, s models.MergeSummary) string {
	var b strings.Builder

	if s.IsEmpty() {
		b.WriteString("No changes.\n")
	}
	for _, t := range s.Tables() {
		fmt.Fprintf(&b, "%-24s %d merged\n", t, s.Merged[t])
	}
	for _, t := range sortedKeys(s.Deleted) {
		fmt.Fprintf(&b, "%-24s %d deleted\n", t, s.Deleted[t])
	}
	fmt.Fprintf(&b, "Skipped packages: %d\n", s.Skipped)
	if s.CorruptFiles > 0 {
		fmt.Fprintf(&b, "Corrupt files: %d\n", s.CorruptFiles)
	}
	if s.Conflicts > 0 {
		fmt.Fprintf(&b, "Conflicts: %d\n", s.Conflicts)
	}
	if len(s.Reasons) > 0 {
		b.WriteString("\n")
		b.WriteString(v.reasons(s.Reasons))
	}

	return v.page(title, b.String())
}

func (v *view) reasons(reasons []models.SkippedReason) string {
	var b strings.Builder
	b.WriteString(v.errorStyle.Render(fmt.Sprintf("Issues (%d):", len(reasons))))
	b.WriteString("\n")
	for _, r := range reasons {
		parts := []string{string(r.Kind)}
		if r.DeviceID != "" {
			parts = append(parts, "device="+r.DeviceID)
		}
		if r.File != "" {
			parts = append(parts, "file="+r.File)
		}
		if r.Table != "" {
			parts = append(parts, "table="+r.Table)
		}
		if r.Key != "" {
			parts = append(parts, "key="+r.Key)
		}
		if r.Class != "" {
			parts = append(parts, "class="+r.Class)
		}
		fmt.Fprintf(&b, "- %s: %s\n", strings.Join(parts, " "), r.Message)
	}
	return b.String()
}

func (v *view) syncStatus(s models.SyncStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", s.State)
	if s.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", s.Reason)
	}
	out := v.page("SYNC", b.String())
	if s.Summary != nil {
		out += "\n" + v.summary("SUMMARY", *s.Summary)
	}
	return out
}

func (v *view) status(r models.StatusReport) string {
	return v.page("SYNC STATUS", v.statusBody(r))
}

func (v *view) statusBody(r models.StatusReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Enabled:     %s\n", yesNo(r.Enabled))
	fmt.Fprintf(&b, "Configured:  %s\n", yesNo(r.Configured))
	fmt.Fprintf(&b, "Device:      %s\n", valueOrNA(r.DeviceID))
	fmt.Fprintf(&b, "Folder:      %s\n", valueOrNA(r.SyncFolder))
	fmt.Fprintf(&b, "Last sync:   %s\n", models.HumanizeSince(r.LastSync, v.now()))
	fmt.Fprintf(&b, "Interval:    %d min\n", r.IntervalMinutes)

	if len(r.OtherDevices) == 0 {
		b.WriteString("Other devices: none\n")
		return b.String()
	}
	b.WriteString("Other devices:\n")
	for _, p := range r.OtherDevices {
		fmt.Fprintf(&b, "- %s  %s  %d bytes\n", p.DeviceID, p.LastModified, p.SizeBytes)
	}
	return b.String()
}

func (v *view) detailedStatus(r models.DetailedStatusReport) string {
	var b strings.Builder
	b.WriteString(v.statusBody(r.StatusReport))

	b.WriteString("\n")
	if r.LockInfo == nil {
		b.WriteString("Lock: free\n")
	} else {
		lock := fmt.Sprintf("Lock held by %s (pid %d on %s)\nsince %s, %.0fs ago",
			r.LockInfo.DeviceID, r.LockInfo.ProcessID, valueOrNA(r.LockInfo.HostName),
			r.LockInfo.LockedAt, r.LockInfo.AgeSeconds)
		if r.LockInfo.IsStale {
			lock += "\nSTALE"
		}
		b.WriteString(v.boxStyle.Render(lock))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.schemaBody(r.SchemaCompatibility))

	b.WriteString("\nKnown devices:\n")
	if len(r.KnownDevices) == 0 {
		b.WriteString("  -\n")
	}
	for _, d := range r.KnownDevices {
		fmt.Fprintf(&b, "- %s  %s  %s  v%s  seen %s\n",
			d.DeviceID, valueOrNA(d.HostName), valueOrNA(d.Platform), valueOrNA(d.AppVersion),
			models.HumanizeSince(d.LastSeen, v.now()))
	}

	b.WriteString("\nRecent history:\n")
	if len(r.RecentHistory) == 0 {
		b.WriteString("  -\n")
	}
	for _, h := range r.RecentHistory {
		fmt.Fprintf(&b, "- %s  %-16s %s\n", h.Timestamp, h.EventType, h.DeviceID)
	}

	return v.page("SYNC STATUS (DETAILED)", b.String())
}

func (v *view) schema(c models.SchemaCompatibility) string {
	return v.page("SCHEMA", v.schemaBody(c))
}

func (v *view) schemaBody(c models.SchemaCompatibility) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Local schema version: %d\n", c.LocalVersion)
	if len(c.CompatibleDevices) > 0 {
		fmt.Fprintf(&b, "Compatible: %s\n", strings.Join(c.CompatibleDevices, ", "))
	}
	for _, d := range c.IncompatibleDevices {
		fmt.Fprintf(&b, "Incompatible: %s (%s) version %s\n", valueOrNA(d.DeviceID), d.File, d.Version)
	}
	return b.String()
}

func (v *view) conflicts(deviceID string, records []models.ConflictRecord) string {
	title := "CONFLICTS WITH " + valueOrNA(deviceID)
	if len(records) == 0 {
		return v.page(title, "No conflicts.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d row(s) edited on both devices:\n", len(records))
	for _, c := range records {
		winner := "local"
		if c.RemoteUpdated.After(c.LocalUpdated) {
			winner = "remote"
		}
		fmt.Fprintf(&b, "- %s %s=%s  local %s  remote %s  -> %s wins\n",
			c.Table, c.PrimaryKeyColumn, c.PrimaryKeyValue, c.LocalUpdated, c.RemoteUpdated, winner)
	}
	return v.page(title, b.String())
}

func (v *view) lockBroken(rec *models.LockRecord) string {
	if rec == nil {
		return v.page("LOCK", "No lock was held.")
	}
	return v.page("LOCK", fmt.Sprintf("Removed lock of %s (pid %d on %s) taken at %s",
		rec.DeviceID, rec.ProcessID, valueOrNA(rec.HostName), rec.LockedAt))
}

func (v *view) verification(t models.TableVerification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synced tables: %d\n", len(t.SyncedTables))
	if len(t.MissingFromDB) > 0 {
		fmt.Fprintf(&b, "Missing from database: %s\n", strings.Join(t.MissingFromDB, ", "))
	}
	if len(t.MissingFromSync) > 0 {
		fmt.Fprintf(&b, "Not synced: %s\n", strings.Join(t.MissingFromSync, ", "))
	}
	if len(t.MissingFromDB) == 0 && len(t.MissingFromSync) == 0 {
		b.WriteString("All tables accounted for.\n")
	}
	return v.page("TABLES", b.String())
}

func (v *view) buildInfo(info models.AppBuildInfo) string {
	var b strings.Builder
	b.WriteString("Application: wiredsync\n")
	b.WriteString("Version: " + valueOrNA(info.BuildVersion()) + "\n")
	b.WriteString("Date: " + valueOrNA(info.BuildDate()) + "\n")
	b.WriteString("Commit: " + valueOrNA(info.BuildCommit()))
	return v.page("ABOUT", b.String())
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
