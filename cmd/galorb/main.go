package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/morganb-phys/galpy/internal/config"
	"github.com/morganb-phys/galpy/internal/live"
	"github.com/morganb-phys/galpy/internal/trajstore"
	"github.com/morganb-phys/galpy/orbit"
	"github.com/morganb-phys/galpy/symplec"
)

var (
	dataDir  string
	scheme   string
	rtol     float64
	atol     float64
	t0       float64
	t1       float64
	samples  int
	maxSteps int
	q0Flag   []float64
	p0Flag   []float64
	// Phase plot axes
	xAxis int
	yAxis int
	// Config file
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "galorb",
		Short: "symplectic orbit integration lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".galorb", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [field]",
		Short: "integrate an orbit and store the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runOrbit,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored trajectory columns against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "scatter plot of two trajectory columns",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "column index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "column index for y-axis")

	compareCmd := &cobra.Command{
		Use:   "compare [field] [scheme1] [scheme2] ...",
		Short: "compare schemes on the same orbit",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSchemes,
	}
	addRunFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [field]",
		Short: "benchmark schemes across tolerances",
		Args:  cobra.ExactArgs(1),
		RunE:  benchField,
	}
	addRunFlags(benchCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [field]",
		Short: "list available presets for a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for field: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "export orbit path to SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&xAxis, "x-axis", 0, "column index for x-axis")
	exportSVGCmd.Flags().IntVar(&yAxis, "y-axis", 1, "column index for y-axis")

	liveCmd := &cobra.Command{
		Use:   "live [field]",
		Short: "animate an orbit in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, compareCmd, benchCmd, presetsCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scheme, "scheme", "leapfrog", "integration scheme")
	cmd.Flags().Float64Var(&rtol, "rtol", config.DefaultRtol, "relative tolerance")
	cmd.Flags().Float64Var(&atol, "atol", config.DefaultAtol, "absolute tolerance")
	cmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	cmd.Flags().Float64Var(&t1, "t1", config.DefaultT1, "end time")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of output times")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "sub-step budget (0 = unlimited)")
	cmd.Flags().Float64SliceVar(&q0Flag, "q0", []float64{1, 0}, "initial position")
	cmd.Flags().Float64SliceVar(&p0Flag, "p0", []float64{0, 1}, "initial momentum")
}

func runOrbit(cmd *cobra.Command, args []string) error {
	field := args[0]

	// Load preset if specified
	if preset != "" {
		cfg := config.GetPreset(field, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(field))
		}
		scheme = cfg.Scheme
		rtol = cfg.Rtol
		atol = cfg.Atol
		t0 = cfg.T0
		t1 = cfg.T1
		samples = cfg.Samples
		maxSteps = cfg.MaxSteps
		q0Flag = cfg.Init.Q
		p0Flag = cfg.Init.P
	}

	// Load config file if specified (CLI flags override config)
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("scheme") {
			scheme = cfg.Scheme
		}
		if !cmd.Flags().Changed("rtol") {
			rtol = cfg.Rtol
		}
		if !cmd.Flags().Changed("atol") {
			atol = cfg.Atol
		}
		if !cmd.Flags().Changed("t0") {
			t0 = cfg.T0
		}
		if !cmd.Flags().Changed("t1") {
			t1 = cfg.T1
		}
		if !cmd.Flags().Changed("samples") {
			samples = cfg.Samples
		}
		if !cmd.Flags().Changed("max-steps") {
			maxSteps = cfg.MaxSteps
		}
		if !cmd.Flags().Changed("q0") {
			q0Flag = cfg.Init.Q
		}
		if !cmd.Flags().Changed("p0") {
			p0Flag = cfg.Init.P
		}
	}

	st := trajstore.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	accel, err := fieldByName(field)
	if err != nil {
		return err
	}

	times := outputTimes()
	o := orbit.New(q0Flag, p0Flag)
	ocfg := orbit.Config{Scheme: scheme, Rtol: rtol, Atol: atol, MaxSteps: maxSteps}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("integrating %s orbit...\n", field)
	start := time.Now()

	res, rerr := o.Integrate(ctx, accel, times, ocfg)
	if rerr != nil && res == nil {
		return rerr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(field, scheme, rtol, atol, res)
	if err != nil {
		return err
	}

	if rerr != nil {
		fmt.Printf("stopped early: %v\n", rerr)
	}
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("snapshots: %d\n", len(res.Times))
	fmt.Printf("sub-step: %.3g\n", res.Step)
	fmt.Printf("sub-steps: %d\n", res.Steps)
	fmt.Printf("evaluations: %d\n", res.Evals)
	if res.Energy != nil {
		fmt.Printf("energy drift: %.2e\n", res.EnergyDrift)
	}

	return nil
}

func outputTimes() []float64 {
	cfg := config.Config{T0: t0, T1: t1, Samples: samples}
	return cfg.Times()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := trajstore.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIELD\tTIME\tSPAN\tSAMPLES\tSCHEME\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%.1f, %.1f]\t%d\t%s\t%.2e\n",
			run.ID,
			run.Field,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.T0,
			run.T1,
			run.Samples,
			run.Scheme,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := trajstore.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("field: %s\n", meta.Field)
	fmt.Printf("samples: %d\n\n", len(rows))

	numVars := len(rows[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(rows))
		for i := range rows {
			if varIdx < len(rows[i]) {
				data[i] = rows[i][varIdx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(columnCaption(meta.Dim, varIdx)+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func columnCaption(dim, col int) string {
	switch {
	case col < dim:
		return fmt.Sprintf("q%d", col)
	case col < 2*dim:
		return fmt.Sprintf("p%d", col-dim)
	default:
		return "energy"
	}
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := trajstore.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if len(rows[0]) <= xAxis || len(rows[0]) <= yAxis {
		return fmt.Errorf("trajectory has only %d columns", len(rows[0]))
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("field: %s\n", meta.Field)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", columnCaption(meta.Dim, xAxis), columnCaption(meta.Dim, yAxis))

	xData := make([]float64, len(rows))
	yData := make([]float64, len(rows))
	for i := range rows {
		xData[i] = rows[i][xAxis]
		yData[i] = rows[i][yAxis]
	}

	xMin, xMax := floats.Min(xData), floats.Max(xData)
	yMin, yMax := floats.Min(yData), floats.Max(yData)
	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width, height := 70, 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			switch {
			case i < len(xData)/3:
				canvas[py][px] = '.'
			case i < 2*len(xData)/3:
				canvas[py][px] = 'o'
			default:
				canvas[py][px] = '●'
			}
		}
	}

	fmt.Printf("  %.2f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i := range canvas {
		if i == height/2 {
			fmt.Printf("  %.2f │", (yMax+yMin)/2)
		} else {
			fmt.Print("       │")
		}
		fmt.Print(string(canvas[i]))
		fmt.Println("│")
	}
	fmt.Printf("  %.2f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Printf("       %.2f%s%.2f\n", xMin, strings.Repeat(" ", width-20), xMax)
	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")

	return nil
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	field := args[0]
	schemes := args[1:]

	accel, err := fieldByName(field)
	if err != nil {
		return err
	}

	times := outputTimes()
	fmt.Printf("comparing schemes for %s (rtol=%.1e, span=[%.1f, %.1f])\n\n", field, rtol, t0, t1)
	fmt.Printf("%-12s  %-12s  %-12s  %-10s  %-10s  %-10s\n", "scheme", "final_q0", "energy_drift", "sub-steps", "evals", "time_ms")
	fmt.Println(strings.Repeat("-", 76))

	for _, name := range schemes {
		o := orbit.New(q0Flag, p0Flag)
		cfg := orbit.Config{Scheme: name, Rtol: rtol, Atol: atol, MaxSteps: maxSteps}

		start := time.Now()
		res, err := o.Integrate(context.Background(), accel, times, cfg)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		finalQ0 := 0.0
		if res.Traj.Len() > 0 {
			q, _ := res.Traj.At(res.Traj.Len() - 1)
			finalQ0 = q[0]
		}

		fmt.Printf("%-12s  %12.6f  %12.2e  %10d  %10d  %10.2f\n",
			name, finalQ0, res.EnergyDrift, res.Steps, res.Evals, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func benchField(cmd *cobra.Command, args []string) error {
	field := args[0]

	accel, err := fieldByName(field)
	if err != nil {
		return err
	}

	rtols := []float64{1e-6, 1e-8, 1e-10}
	times := outputTimes()

	fmt.Printf("benchmarking %s\n\n", field)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tRTOL\tSUB-STEPS\tEVALS\tTIME\tSTEPS/SEC")

	for _, name := range orbit.Schemes() {
		for _, tol := range rtols {
			o := orbit.New(q0Flag, p0Flag)
			cfg := orbit.Config{Scheme: name, Rtol: tol, Atol: tol}

			start := time.Now()
			res, err := o.Integrate(context.Background(), accel, times, cfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(res.Steps) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%.0e\t%d\t%d\t%v\t%.0f\n",
				name, tol, res.Steps, res.Evals, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := trajstore.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := trajstore.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range rows[0] {
		header = append(header, columnCaption(meta.Dim, i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range rows {
		row := []string{strconv.FormatFloat(times[i], 'g', 12, 64)}
		for _, val := range rows[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 12, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := trajstore.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	traj := symplec.NewTrajectory(meta.Dim, len(rows))
	var energy []float64
	for i, row := range rows {
		if len(row) < 2*meta.Dim {
			return fmt.Errorf("row %d has %d columns, want at least %d", i, len(row), 2*meta.Dim)
		}
		q, p := traj.At(i)
		copy(q, row[:meta.Dim])
		copy(p, row[meta.Dim:2*meta.Dim])
		if len(row) > 2*meta.Dim {
			energy = append(energy, row[2*meta.Dim])
		}
	}

	res := &orbit.Result{
		Times:       times,
		Traj:        traj,
		Energy:      energy,
		EnergyDrift: meta.EnergyDrift,
		Steps:       meta.Steps,
		Evals:       meta.Evals,
		Step:        meta.Step,
	}
	return trajstore.ExportJSONStdout(meta.Field, meta.Scheme, meta.Rtol, meta.Atol, res)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := trajstore.New(dataDir)
	rows, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("not enough data to export")
	}
	if len(rows[0]) <= xAxis || len(rows[0]) <= yAxis {
		return fmt.Errorf("trajectory has only %d columns", len(rows[0]))
	}

	x := make([]float64, len(rows))
	y := make([]float64, len(rows))
	for i := range rows {
		x[i] = rows[i][xAxis]
		y[i] = rows[i][yAxis]
	}

	if err := trajstore.WriteOrbitSVG(args[1], x, y, 800, 600); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	field := args[0]

	accel, err := fieldByName(field)
	if err != nil {
		return err
	}

	m := live.NewModel(field, scheme, accel, q0Flag, p0Flag, rtol, atol)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// shoField is an isotropic harmonic well, a = -q.
type shoField struct{}

func (shoField) Accel(t float64, q, p, a []float64) {
	for i := range q {
		a[i] = -q[i]
	}
}

func (shoField) Energy(q, p []float64) float64 {
	return 0.5 * (floats.Dot(p, p) + floats.Dot(q, q))
}

// keplerField is a unit point mass at the origin.
type keplerField struct{}

func (keplerField) Accel(t float64, q, p, a []float64) {
	r := floats.Norm(q, 2)
	r3 := r * r * r
	for i := range q {
		a[i] = -q[i] / r3
	}
}

func (keplerField) Energy(q, p []float64) float64 {
	return 0.5*floats.Dot(p, p) - 1/floats.Norm(q, 2)
}

// driftField is force-free motion.
type driftField struct{}

func (driftField) Accel(t float64, q, p, a []float64) {
	for i := range a {
		a[i] = 0
	}
}

func (driftField) Energy(q, p []float64) float64 {
	return 0.5 * floats.Dot(p, p)
}

func fieldByName(name string) (symplec.Acceleration, error) {
	switch name {
	case "sho":
		return shoField{}, nil
	case "kepler":
		return keplerField{}, nil
	case "drift":
		return driftField{}, nil
	}
	return nil, fmt.Errorf("unknown field: %s (have sho, kepler, drift)", name)
}
