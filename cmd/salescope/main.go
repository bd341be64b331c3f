package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/spektr-org/salescope"
	"github.com/spektr-org/salescope/config"
	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/helpers"
	"github.com/spektr-org/salescope/logger"
	"github.com/spektr-org/salescope/schema"
)

// ============================================================================
// SALESCOPE CLI — Sales dashboard numbers from a CSV/JSON export
// ============================================================================

const usageText = `Salescope — KPIs, charts, forecast and payment realization for a sales export

Usage:
  salescope --file sales.json --report kpi --timeframe qtd --format pretty
  salescope --file sales.csv --report charts --format csv --out charts.csv
  salescope --file sales.json --report forecast --periods 6 --now 2025-03-15
  salescope --file sales.json --filter region=North --filter sales_rep=Asha --format text
  salescope --describe --format pretty

Flags:
`

const usageFooter = `
Environment (.env is read when present):
  SALESCOPE_LOG_LEVEL          debug, info, warn, error (default info)
  SALESCOPE_LOG_PRETTY         console logs instead of JSON lines
  SALESCOPE_TIMEFRAME          default --timeframe
  SALESCOPE_FORECAST_PERIODS   default --periods
  SALESCOPE_REALIZATION_DAYS   default --days
  SALESCOPE_DATA_FILE          default --file

Reports:
  all          Full dashboard (default)
  kpi          KPI snapshot with growth cards
  charts       Render-ready chart configs
  forecast     Historical + projected revenue with 95% bands
  realization  Pipeline invoices by payment probability

Formats:
  json      Report envelope as JSON (default)
  pretty    Pretty-printed JSON
  msgpack   Report envelope as msgpack
  text      Human-readable summary
  csv       Report rows as CSV (ready for Sheets/Excel)
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options is the parsed command line.
type options struct {
	file      string
	report    string
	timeframe string
	now       string
	periods   int
	days      int
	format    string
	out       string
	filters   engine.Filters
	describe  bool
	version   bool
}

// filterFlag collects repeated --filter dimension=value[,value] flags.
type filterFlag struct{ f *engine.Filters }

func (ff filterFlag) String() string {
	if ff.f == nil {
		return ""
	}
	return ff.f.Label()
}

func (ff filterFlag) Set(s string) error {
	dim, values, ok := strings.Cut(s, "=")
	dim = strings.TrimSpace(dim)
	if !ok || dim == "" || strings.TrimSpace(values) == "" {
		return fmt.Errorf("filter %q: want dimension=value[,value]", s)
	}
	if !knownDimension(dim) {
		return fmt.Errorf("filter %q: unknown dimension %q (see --describe)", s, dim)
	}
	*ff.f = ff.f.Add(dim, strings.Split(values, ",")...)
	return nil
}

func knownDimension(key string) bool {
	for _, k := range schema.Sales().DimensionKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("salescope", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.file, "file", cfg.DefaultDataFile, "Path to a .csv, .json or .msgpack sales export")
	fs.StringVar(&opts.report, "report", "all", "Report: all, kpi, charts, forecast, realization")
	fs.StringVar(&opts.timeframe, "timeframe", cfg.Timeframe, "KPI window: mtd, qtd, ytd")
	fs.StringVar(&opts.now, "now", "", "Reference date (YYYY-MM-DD); defaults to today")
	fs.IntVar(&opts.periods, "periods", cfg.ForecastPeriods, "Forecast horizon in months")
	fs.IntVar(&opts.days, "days", cfg.RealizationDays, "Realization window in days")
	fs.StringVar(&opts.format, "format", "json", "Output format: json, pretty, msgpack, text, csv")
	fs.StringVar(&opts.out, "out", "", "Write output to file instead of stdout")
	fs.Var(filterFlag{&opts.filters}, "filter", "Restrict records: dimension=value[,value] (repeatable)")
	fs.BoolVar(&opts.describe, "describe", false, "Print the sales column catalogue and exit")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
		fmt.Fprint(stderr, usageFooter)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg := config.Load()
	logger.SetGlobalLogger(logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: stderr,
	}))

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return err
	}

	if opts.version {
		fmt.Fprintf(stdout, "salescope %s\n", salescope.Version)
		return nil
	}

	if opts.describe {
		return withOutput(opts.out, stdout, func(w io.Writer) error {
			return writeJSON(w, schema.Sales(), opts.format)
		})
	}

	// ── Validate before touching the output file ──────────────────────────
	if !validReport(opts.report) {
		return fmt.Errorf("unknown report %q (want all, kpi, charts, forecast, realization)", opts.report)
	}
	if !validFormat(opts.format) {
		return fmt.Errorf("unknown format %q (want json, pretty, msgpack, text, csv)", opts.format)
	}
	if opts.file == "" {
		return errors.New("--file is required")
	}
	tf, err := engine.ParseTimeframe(opts.timeframe)
	if err != nil {
		return err
	}
	now, err := parseNow(opts.now)
	if err != nil {
		return err
	}

	// ── Load + compute ────────────────────────────────────────────────────
	records, err := helpers.LoadFile(opts.file)
	if err != nil {
		return err
	}
	log.Info().Int("records", len(records)).Str("file", opts.file).Msg("📊 records loaded")

	dashboard := engine.Execute(records, tf,
		engine.WithNow(now),
		engine.WithForecastPeriods(opts.periods),
		engine.WithRealizationDays(opts.days),
		engine.WithFilters(opts.filters),
	)
	log.Info().
		Str("timeframe", string(dashboard.Timeframe)).
		Str("window", dashboard.Current.String()).
		Str("filters", opts.filters.Label()).
		Msg("🔄 dashboard computed")

	err = withOutput(opts.out, stdout, func(w io.Writer) error {
		return render(w, opts, dashboard)
	})
	if err != nil {
		return err
	}
	if opts.out != "" {
		log.Info().Str("out", opts.out).Str("format", opts.format).Msg("📄 report written")
	}
	return nil
}

// parseNow reads --now. A bare date means the end of that day so orders
// placed later "today" still land in the current window.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, ok := engine.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --now %q (want YYYY-MM-DD)", s)
	}
	if !strings.ContainsAny(s, "T:") {
		t = engine.EndOfDay(t)
	}
	return t, nil
}

// withOutput runs write against stdout, or against a file created only now.
func withOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func render(w io.Writer, opts *options, d *engine.Dashboard) error {
	var err error
	switch opts.format {
	case "csv":
		err = writeCSV(w, opts.report, d)
	case "text":
		_, err = fmt.Fprint(w, renderText(opts.report, d))
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		err = enc.Encode(newEnvelope(opts, d))
	default:
		err = writeJSON(w, newEnvelope(opts, d), opts.format)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func validReport(r string) bool {
	switch r {
	case "all", "kpi", "charts", "forecast", "realization":
		return true
	}
	return false
}

func validFormat(f string) bool {
	switch f {
	case "json", "pretty", "msgpack", "text", "csv":
		return true
	}
	return false
}

// ============================================================================
// OUTPUT TYPES
// ============================================================================

type envelope struct {
	ReportID    string         `json:"reportId" msgpack:"reportId"`
	Version     string         `json:"version" msgpack:"version"`
	GeneratedAt time.Time      `json:"generatedAt" msgpack:"generatedAt"`
	Report      string         `json:"report" msgpack:"report"`
	Source      string         `json:"source" msgpack:"source"`
	Timeframe   string         `json:"timeframe" msgpack:"timeframe"`
	AsOf        time.Time      `json:"asOf" msgpack:"asOf"`
	Filters     engine.Filters `json:"filters" msgpack:"filters"`
	Data        any            `json:"data" msgpack:"data"`
}

type kpiReport struct {
	Snapshot engine.KpiSnapshot `json:"snapshot" msgpack:"snapshot"`
	Text     *engine.KpiText    `json:"text" msgpack:"text"`
}

type realizationReport struct {
	Entries []engine.RealizationEntry  `json:"entries" msgpack:"entries"`
	Summary []engine.RealizationBucket `json:"summary" msgpack:"summary"`
}

func newEnvelope(opts *options, d *engine.Dashboard) envelope {
	return envelope{
		ReportID:    uuid.NewString(),
		Version:     salescope.Version,
		GeneratedAt: time.Now().UTC(),
		Report:      opts.report,
		Source:      opts.file,
		Timeframe:   string(d.Timeframe),
		AsOf:        d.AsOf,
		Filters:     opts.filters,
		Data:        reportData(opts.report, d),
	}
}

func reportData(report string, d *engine.Dashboard) any {
	switch report {
	case "kpi":
		return kpiReport{Snapshot: d.Kpis, Text: engine.BuildKpiText(d.Kpis, d.Timeframe)}
	case "charts":
		return engine.DashboardCharts(d)
	case "forecast":
		return d.Forecast
	case "realization":
		return realizationReport{Entries: d.Realization, Summary: d.RealizationSummary}
	default:
		return d
	}
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

func renderText(report string, d *engine.Dashboard) string {
	if report != "kpi" {
		return engine.RenderText(d)
	}
	kpi := engine.BuildKpiText(d.Kpis, d.Timeframe)
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", kpi.Period, d.Current)
	for _, c := range kpi.Cards {
		fmt.Fprintf(&b, "  %-16s %s  %s\n", c.Title, c.Value, c.Change)
	}
	return b.String()
}

// ============================================================================
// CSV OUTPUT — report rows ready for Sheets
// ============================================================================

func writeCSV(w io.Writer, report string, d *engine.Dashboard) error {
	cw := csv.NewWriter(w)

	switch report {
	case "kpi":
		cw.Write([]string{"Metric", "Value", "Change", "Direction"})
		for _, c := range engine.BuildKpiText(d.Kpis, d.Timeframe).Cards {
			cw.Write([]string{c.Title, c.Value, c.Change, c.Direction})
		}
	case "forecast":
		cw.Write([]string{"Date", "Value", "Projected", "Confidence Low", "Confidence High"})
		for _, p := range d.Forecast {
			cw.Write([]string{
				p.Date.Format("2006-01-02"),
				fmtNum(p.Value),
				fmt.Sprintf("%t", p.IsProjected),
				fmtOptional(p.ConfidenceLow),
				fmtOptional(p.ConfidenceHigh),
			})
		}
	case "realization":
		cw.Write([]string{"Probability", "Amount", "Invoices"})
		for _, b := range d.RealizationSummary {
			cw.Write([]string{string(b.Probability), fmtNum(b.Amount), fmt.Sprintf("%d", b.Count)})
		}
	default:
		// One long table: every chart point on its own row.
		cw.Write([]string{"Chart", "Series", "Label", "Value"})
		for _, c := range engine.DashboardCharts(d) {
			for _, s := range c.Series {
				for _, p := range s.Data {
					cw.Write([]string{c.Title, s.Name, p.Label, fmtNum(p.Value)})
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmtNum(*v)
}
