package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/shopspring/decimal"
)

func buildTestResult() *domain.ProjectionResult {
	rec := func(year, month int, savings, remaining int64, overridden bool) domain.MonthlyRecord {
		return domain.MonthlyRecord{
			Year:                   year,
			Month:                  month,
			Age:                    year - 1980,
			Income:                 decimal.NewFromInt(3000),
			Bonus:                  decimal.Zero,
			LoanInterestPaid:       decimal.NewFromFloat(12.5),
			LoanPrincipalPaid:      decimal.NewFromFloat(37.5),
			TotalLoanPayment:       decimal.NewFromInt(50),
			MonthlyConsumption:     decimal.NewFromInt(1000),
			CumulativeSavings:      decimal.NewFromInt(savings),
			RealEstateValue:        decimal.NewFromInt(250000),
			TotalAssets:            decimal.NewFromInt(250000 + savings - remaining),
			RemainingLoanPrincipal: decimal.NewFromInt(remaining),
			DisposableIncome:       decimal.NewFromInt(1450),
			IsOverridden:           overridden,
		}
	}
	return &domain.ProjectionResult{
		ProfileID: "household",
		Projection: []domain.MonthlyRecord{
			rec(2026, 11, 500, 2000, false),
			rec(2026, 12, 1000, 1000, true),
			rec(2027, 1, 1500, 0, false),
		},
		ProjectedLoanStates: []domain.ProjectedLoanState{
			{Year: 2026, Month: 11, LoanID: "zeta", PrincipalPaid: decimal.NewFromInt(10), RemainingPrincipal: decimal.NewFromInt(90)},
			{Year: 2026, Month: 11, LoanID: "alpha", PrincipalPaid: decimal.NewFromInt(20), RemainingPrincipal: decimal.NewFromInt(80)},
		},
		Summary: domain.Summary{
			RetirementYear:       2027,
			MonthsProjected:      3,
			FinalSavings:         decimal.NewFromInt(1500),
			FinalRealEstateValue: decimal.NewFromInt(250000),
			FinalTotalAssets:     decimal.NewFromInt(251500),
			TotalInterestPaid:    decimal.NewFromFloat(37.5),
			TotalPrincipalPaid:   decimal.NewFromInt(3000),
			DebtFreeYear:         2027,
			DebtFreeMonth:        1,
		},
	}
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"NET WORTH PROJECTION", "251,500.00", "2027-01", "2026*", "overridden months"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in console output, got:\n%s", want, content)
		}
	}
}

func TestConsoleFormatterNotDebtFree(t *testing.T) {
	r := buildTestResult()
	r.Summary.DebtFreeYear, r.Summary.DebtFreeMonth = 0, 0
	out, err := ConsoleFormatter{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "not before retirement") {
		t.Fatalf("expected debt warning, got:\n%s", out)
	}
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "household,2027,3,1500.00,") || !strings.HasSuffix(lines[1], ",2027-01") {
		t.Fatalf("unexpected summary row: %s", lines[1])
	}
}

func TestCSVMonthlyExporter(t *testing.T) {
	out, err := CSVMonthlyExporter{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header+3 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[2], "2026,12,46,3000.00,") || !strings.HasSuffix(lines[2], ",true") {
		t.Fatalf("unexpected December row: %s", lines[2])
	}
}

func TestCSVLoanExporterGroupsByLoan(t *testing.T) {
	out, err := CSVLoanExporter{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "alpha,") || !strings.HasPrefix(lines[2], "zeta,") {
		t.Fatalf("rows not grouped by loan: %v", lines)
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back domain.ProjectionResult
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(back.Projection) != 3 || !back.Summary.FinalTotalAssets.Equal(decimal.NewFromInt(251500)) {
		t.Fatalf("unexpected decoded result: %+v", back.Summary)
	}
}

// Golden snapshot tests (prefix-based) ensure key headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"csv_summary", "csv_summary.golden", CSVSummarizer{}},
		{"csv_monthly", "csv_monthly.golden", CSVMonthlyExporter{}},
		{"csv_loans", "csv_loans.golden", CSVLoanExporter{}},
		{"json", "json_prefix.golden", JSONFormatter{}},
	}

	res := buildTestResult()
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		out, err := tc.formatter.Format(res)
		if err != nil {
			t.Fatalf("%s: format error: %v", tc.name, err)
		}
		goldenPath := filepath.Join("testdata", tc.golden)
		if update {
			// only first line to keep golden small & stable
			line := firstLine(string(out)) + "\n"
			if err := os.WriteFile(goldenPath, []byte(line), 0644); err != nil {
				t.Fatalf("%s: update golden failed: %v", tc.name, err)
			}
		}
		data, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("%s: read golden: %v", tc.name, err)
		}
		if !strings.HasPrefix(string(out), strings.TrimSpace(string(data))) {
			t.Fatalf("%s: output does not match golden prefix %q", tc.name, strings.TrimSpace(string(data)))
		}
	}
}

func TestGetFormatterByNameAndAliases(t *testing.T) {
	for _, name := range AvailableFormatterNames() {
		if GetFormatterByName(name) == nil {
			t.Fatalf("registered formatter %q not found", name)
		}
	}
	for _, alias := range AvailableFormatAliases() {
		if GetFormatterByName(alias) == nil {
			t.Fatalf("alias %q does not resolve", alias)
		}
	}
	if f := GetFormatterByName("  Monthly "); f == nil || f.Name() != "monthly-csv" {
		t.Fatalf("expected monthly-csv for alias, got %v", f)
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("pdf should not resolve")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, buildTestResult(), "pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "monthly-csv") {
		t.Fatalf("error should list formats: %v", err)
	}
}

func TestRenderWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, buildTestResult(), "csv"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "ProfileID,") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestWriteFormattedNamesFile(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	dir := t.TempDir()
	name, err := WriteFormatted(CSVMonthlyExporter{}, buildTestResult(), dir)
	if err != nil {
		t.Fatalf("write error: %v", err)
	}
	if want := filepath.Join(dir, "projection_monthly_csv_20260304_050607.csv"); name != want {
		t.Fatalf("file name = %q, want %q", name, want)
	}
	if _, err := os.Stat(name); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "count", Ext: "txt", F: func(r *domain.ProjectionResult) ([]byte, error) {
		return []byte(intToString(len(r.Projection))), nil
	}}
	out, err := f.Format(buildTestResult())
	if err != nil || string(out) != "3" || f.Name() != "count" || f.Extension() != "txt" {
		t.Fatalf("unexpected FormatterFunc behaviour: %q %v", out, err)
	}
}

func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{Headers: []string{"Name", "Value"}, Rows: [][]string{{"a", "1"}, {"bbb", "22"}}})
	if !strings.Contains(out, " a    ") || !strings.Contains(out, "    1 ") {
		t.Fatalf("unexpected alignment:\n%s", out)
	}
	if RenderTable(Table{}) != "" {
		t.Fatalf("empty table should render nothing")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
