// Package shell implements the interactive terminal session: scanning
// receipts, managing people, assigning items and triggering settlement.
//
// The shell owns all mutable session state. Every settlement computation
// receives a fresh snapshot of the receipt and roster, so the engine never
// shares mutable references with the interactive loop.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/config"
	"github.com/dkolev/groupify/internal/models"
	"github.com/dkolev/groupify/internal/money"
	"github.com/dkolev/groupify/internal/parser"
	"github.com/dkolev/groupify/internal/scanning"
	"github.com/dkolev/groupify/internal/service"
	"github.com/dkolev/groupify/internal/storage"
)

// Shell is the interactive session loop.
type Shell struct {
	cfg     *config.Config
	scanner scanning.Scanner // nil when no API key is configured
	store   storage.Store
	settler service.Settler

	in  *bufio.Scanner
	out io.Writer

	session *models.Session
}

// New creates a shell reading from in and writing to out. The scanner may
// be nil, in which case image processing is unavailable but saved sessions
// still work.
func New(cfg *config.Config, scanner scanning.Scanner, store storage.Store, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		cfg:     cfg,
		scanner: scanner,
		store:   store,
		settler: service.Settler{Epsilon: cfg.SettlementEpsilon},
		in:      bufio.NewScanner(in),
		out:     out,
		session: &models.Session{},
	}
}

// Run shows the main menu until the user quits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	s.banner()

	for {
		s.printf("\n%s\nMAIN MENU\n%s\n", divider, divider)
		s.printf("1. Process receipt image\n")
		s.printf("2. Show receipt\n")
		s.printf("3. Manage people\n")
		s.printf("4. Assign items to people\n")
		s.printf("5. Add tip\n")
		s.printf("6. Calculate settlement\n")
		s.printf("7. Export results\n")
		s.printf("8. Save session\n")
		s.printf("9. Load session\n")
		s.printf("0. Exit\n")

		choice, ok := s.prompt("\nChoice: ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			s.processReceipt(ctx)
		case "2":
			s.DisplayReceipt()
		case "3":
			s.managePeople()
		case "4":
			s.assignItems()
		case "5":
			s.addTip()
		case "6":
			s.calculateSettlement()
		case "7":
			s.exportResults()
		case "8":
			s.saveSession(ctx)
		case "9":
			s.loadSession(ctx)
		case "0":
			s.printf("\nThank you for using Groupify!\n")
			return nil
		default:
			s.printf("Unknown choice %q\n", choice)
		}
	}
}

const divider = "=================================================="

func (s *Shell) banner() {
	s.printf("\n%s\n", divider)
	s.printf("GROUPIFY - Smart Bill Splitter\n")
	s.printf("%s\n", divider)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// prompt prints a label and reads one trimmed line; ok is false on EOF.
func (s *Shell) prompt(label string) (string, bool) {
	s.printf("%s", label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// ProcessReceipt scans the given photographs and replaces the session's
// receipt with the parsed result. Multiple paths are treated as photos of
// one receipt, scanned concurrently and parsed top to bottom.
func (s *Shell) ProcessReceipt(ctx context.Context, paths []string) error {
	if s.scanner == nil {
		return fmt.Errorf("receipt scanning is not configured: set GEMINI_API_KEY or --gemini-key")
	}

	images := make([]scanning.Image, 0, len(paths))
	for _, path := range paths {
		img, err := scanning.LoadImage(path, s.cfg.MaxImageSizeBytes)
		if err != nil {
			return err
		}
		images = append(images, img)
	}

	start := time.Now()
	text, err := scanning.ScanAll(ctx, s.scanner, images, s.cfg.MaxWorkers)
	if err != nil {
		return err
	}
	slog.Debug("receipt scanned", "images", len(images), "duration_ms", time.Since(start).Milliseconds())

	s.session.Receipt = parser.Parse(text, s.cfg.DefaultCurrency)
	return nil
}

func (s *Shell) processReceipt(ctx context.Context) {
	line, ok := s.prompt("Enter image path(s), space-separated: ")
	if !ok || line == "" {
		return
	}
	if err := s.ProcessReceipt(ctx, strings.Fields(line)); err != nil {
		s.printf("Failed to process receipt: %v\n", err)
		return
	}
	s.DisplayReceipt()
}

// DisplayReceipt prints the current receipt as a formatted table.
func (s *Shell) DisplayReceipt() {
	receipt := s.session.Receipt
	if receipt == nil || len(receipt.Items) == 0 {
		s.printf("\nNo items detected in receipt\n")
		return
	}

	s.printf("\n%s\nRECEIPT ITEMS\n%s\n", divider, divider)
	for i, item := range receipt.Items {
		assigned := "Unassigned"
		if len(item.AssignedTo) > 0 {
			assigned = strings.Join(item.AssignedTo, ", ")
		}
		s.printf("%2d. %-30.30s %2dx %8s = %9s [%s]\n",
			i+1, item.Name, item.Quantity,
			item.UnitPrice.StringFixed(2), item.Price.StringFixed(2), assigned)
	}
	s.printf("%s\n", divider)
	s.printf("%-40s %9s\n", "SUBTOTAL:", receipt.OriginalTotal.StringFixed(2))
	if receipt.TipAmount.IsPositive() {
		s.printf("%-40s %9s\n", "TIP:", receipt.TipAmount.StringFixed(2))
	}
	s.printf("%-40s %9s %s\n", "TOTAL:", receipt.Total.StringFixed(2), receipt.Currency)
}

func (s *Shell) managePeople() {
	for {
		current := "None"
		if len(s.session.People) > 0 {
			current = strings.Join(s.session.People, ", ")
		}
		s.printf("\nCurrent people: %s\n", current)
		s.printf("\n1. Add person\n2. Remove person\n3. Clear all\n4. Done\n")

		choice, ok := s.prompt("\nChoice: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			name, ok := s.prompt("Enter name: ")
			if !ok || name == "" {
				continue
			}
			if s.hasPerson(name) {
				s.printf("%s is already in the list\n", name)
				continue
			}
			s.session.People = append(s.session.People, name)
			s.printf("Added %s\n", name)
		case "2":
			for i, person := range s.session.People {
				s.printf("%d. %s\n", i+1, person)
			}
			sel, ok := s.prompt("Select person number to remove: ")
			if !ok {
				return
			}
			idx, err := strconv.Atoi(sel)
			if err != nil || idx < 1 || idx > len(s.session.People) {
				s.printf("Invalid selection\n")
				continue
			}
			removed := s.session.People[idx-1]
			s.session.People = append(s.session.People[:idx-1], s.session.People[idx:]...)
			s.removeAssignments(removed)
			s.printf("Removed %s\n", removed)
		case "3":
			s.session.People = nil
			s.clearAssignments()
			s.printf("Cleared all people\n")
		case "4":
			return
		}
	}
}

func (s *Shell) hasPerson(name string) bool {
	for _, p := range s.session.People {
		if p == name {
			return true
		}
	}
	return false
}

// removeAssignments drops a removed person from every item so no
// assignment references someone outside the roster.
func (s *Shell) removeAssignments(name string) {
	if s.session.Receipt == nil {
		return
	}
	for i := range s.session.Receipt.Items {
		item := &s.session.Receipt.Items[i]
		kept := item.AssignedTo[:0]
		for _, p := range item.AssignedTo {
			if p != name {
				kept = append(kept, p)
			}
		}
		item.AssignedTo = kept
	}
}

func (s *Shell) clearAssignments() {
	if s.session.Receipt == nil {
		return
	}
	for i := range s.session.Receipt.Items {
		s.session.Receipt.Items[i].AssignedTo = nil
	}
}

func (s *Shell) assignItems() {
	receipt := s.session.Receipt
	if receipt == nil || len(receipt.Items) == 0 {
		s.printf("\nNo receipt items to assign\n")
		return
	}
	if len(s.session.People) == 0 {
		s.printf("\nNo people added yet\n")
		return
	}

	for i := range receipt.Items {
		item := &receipt.Items[i]
		s.printf("\n%s - %s\n", item.Name, money.Format(item.Price, receipt.Currency))
		assigned := "None"
		if len(item.AssignedTo) > 0 {
			assigned = strings.Join(item.AssignedTo, ", ")
		}
		s.printf("Assigned to: %s\n", assigned)
		s.printf("\n1. Assign to everyone\n2. Assign to specific people\n3. Skip\n")

		choice, ok := s.prompt("Choice: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			item.AssignedTo = append([]string(nil), s.session.People...)
			s.printf("Assigned to everyone\n")
		case "2":
			for j, person := range s.session.People {
				s.printf("%d. %s\n", j+1, person)
			}
			sel, ok := s.prompt("Enter person numbers (comma-separated): ")
			if !ok {
				return
			}
			people, err := s.parseSelection(sel)
			if err != nil {
				s.printf("Invalid selection: %v\n", err)
				continue
			}
			item.AssignedTo = people
			s.printf("Assigned to %s\n", strings.Join(people, ", "))
		}
	}
}

func (s *Shell) parseSelection(sel string) ([]string, error) {
	var people []string
	for _, field := range strings.Split(sel, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", strings.TrimSpace(field))
		}
		if idx < 1 || idx > len(s.session.People) {
			return nil, fmt.Errorf("no person number %d", idx)
		}
		people = append(people, s.session.People[idx-1])
	}
	return people, nil
}

func (s *Shell) addTip() {
	receipt := s.session.Receipt
	if receipt == nil {
		s.printf("\nNo receipt loaded\n")
		return
	}

	input, ok := s.prompt("\nEnter tip amount: ")
	if !ok {
		return
	}
	tip, err := decimal.NewFromString(strings.ReplaceAll(input, ",", "."))
	if err != nil || tip.IsNegative() {
		s.printf("Invalid amount\n")
		return
	}
	receipt.AddTip(tip)
	s.printf("Added tip: %s\n", money.Format(tip, receipt.Currency))
	s.printf("New total: %s\n", money.Format(receipt.Total, receipt.Currency))
}

// assignUnassignedToEveryone implements the original fixup: items nobody
// claimed are split equally across the whole roster.
func (s *Shell) assignUnassignedToEveryone() {
	for i := range s.session.Receipt.Items {
		item := &s.session.Receipt.Items[i]
		if len(item.AssignedTo) == 0 {
			item.AssignedTo = append([]string(nil), s.session.People...)
		}
	}
}

func (s *Shell) unassignedCount() int {
	n := 0
	for _, item := range s.session.Receipt.Items {
		if len(item.AssignedTo) == 0 {
			n++
		}
	}
	return n
}

// compute takes an immutable snapshot of the session and runs the engine.
func (s *Shell) compute() (*models.SettlementAnalysis, error) {
	snapshot := s.session.Receipt.Clone()
	roster := append([]string(nil), s.session.People...)
	return s.settler.ComputeSettlement(snapshot, roster)
}

func (s *Shell) calculateSettlement() {
	if s.session.Receipt == nil || len(s.session.People) == 0 {
		s.printf("\nNeed a receipt and people to calculate settlements\n")
		return
	}

	if n := s.unassignedCount(); n > 0 {
		answer, ok := s.prompt(fmt.Sprintf("\n%d items are unassigned. Split them equally among everyone? [y/N]: ", n))
		if !ok {
			return
		}
		if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
			s.assignUnassignedToEveryone()
		}
	}

	analysis, err := s.compute()
	if err != nil {
		s.printf("Settlement failed: %v\n", err)
		return
	}
	s.displayAnalysis(analysis)
}

func (s *Shell) displayAnalysis(a *models.SettlementAnalysis) {
	s.printf("\n%s\nOPTIMIZED SETTLEMENTS\n%s\n", divider, divider)
	if len(a.Settlements) == 0 {
		s.printf("\nEveryone paid equally - no settlements needed!\n")
	} else {
		for _, p := range a.PaymentInstructions {
			s.printf("%s\n", p.Instruction)
		}
	}

	s.printf("\nSUMMARY\n")
	s.printf("Total Amount:     %s\n", money.Format(a.TotalAmount, a.Currency))
	s.printf("Per Person:       %s\n", money.Format(a.EqualSharePerPerson, a.Currency))
	s.printf("Transactions:     %d\n", a.Transactions())

	s.printf("\nINDIVIDUAL SHARES\n")
	for _, person := range a.People {
		b := a.DetailedBreakdown[person]
		s.printf("%-15s : %9s (items %s, tip %s) [%s]\n",
			person,
			b.TotalConsumed.StringFixed(2),
			b.SubtotalFromItems.StringFixed(2),
			b.TipShare.StringFixed(2),
			b.Status)
	}

	for _, w := range a.Warnings {
		s.printf("\nWarning: %s\n", w.Message)
	}
}

func (s *Shell) exportResults() {
	if s.session.Receipt == nil {
		s.printf("\nNo receipt to export\n")
		return
	}

	var analysis *models.SettlementAnalysis
	if len(s.session.People) > 0 {
		var err error
		analysis, err = s.compute()
		if err != nil {
			s.printf("Settlement failed: %v\n", err)
			return
		}
	}

	filename := fmt.Sprintf("groupify_receipt_%s.json", time.Now().Format("20060102_150405"))
	f, err := os.Create(filename)
	if err != nil {
		s.printf("Export failed: %v\n", err)
		return
	}
	defer f.Close()

	doc := service.BuildExport(s.session.Receipt, s.session.People, analysis, time.Now())
	if err := service.WriteExport(f, doc); err != nil {
		s.printf("Export failed: %v\n", err)
		return
	}
	s.printf("\nComplete settlement data exported to %s\n", filename)
}

func (s *Shell) saveSession(ctx context.Context) {
	if s.store == nil {
		s.printf("\nSession storage is not configured\n")
		return
	}
	if err := s.store.SaveSession(ctx, s.session); err != nil {
		s.printf("Save failed: %v\n", err)
		return
	}
	s.printf("Saved session %q (%s)\n", s.session.Name, s.session.ID)
}

func (s *Shell) loadSession(ctx context.Context) {
	if s.store == nil {
		s.printf("\nSession storage is not configured\n")
		return
	}
	summaries, err := s.store.ListSessions(ctx)
	if err != nil {
		s.printf("Load failed: %v\n", err)
		return
	}
	if len(summaries) == 0 {
		s.printf("\nNo saved sessions\n")
		return
	}

	for i, sum := range summaries {
		s.printf("%d. %s (%d people, %d items, saved %s)\n",
			i+1, sum.Name, sum.PeopleCount, sum.ItemsCount,
			time.Unix(sum.UpdatedAt, 0).Format("Jan 2 15:04"))
	}
	sel, ok := s.prompt("Select session number: ")
	if !ok {
		return
	}
	idx, err := strconv.Atoi(sel)
	if err != nil || idx < 1 || idx > len(summaries) {
		s.printf("Invalid selection\n")
		return
	}

	session, err := s.store.GetSession(ctx, summaries[idx-1].ID)
	if err != nil {
		s.printf("Load failed: %v\n", err)
		return
	}
	s.session = session
	s.printf("Loaded session %q\n", session.Name)
	s.DisplayReceipt()
}
