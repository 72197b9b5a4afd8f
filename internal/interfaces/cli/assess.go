package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/client"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

var (
	assessName      string
	assessLat       float64
	assessLon       float64
	assessHeading   float64
	assessSpeed     float64
	assessDraft     float64
	assessClass     string
	assessFleetFile string
	assessSource    string
)

// NewAssessCmd creates the assess command. Assessment happens server-side
// against the hazard zones in force, so these subcommands need --server (or
// a running local API).
func NewAssessCmd() *cobra.Command {
	assessCmd := &cobra.Command{
		Use:   "assess",
		Short: "Grade vessel or fleet exposure against active hazard zones",
	}

	vesselCmd := &cobra.Command{
		Use:   "vessel",
		Short: "Assess a single vessel's risk profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssessVessel(cmd)
		},
	}
	vesselCmd.Flags().StringVar(&assessName, "name", "", "Vessel name (required)")
	vesselCmd.Flags().Float64Var(&assessLat, "lat", 0, "Latitude in decimal degrees")
	vesselCmd.Flags().Float64Var(&assessLon, "lon", 0, "Longitude in decimal degrees")
	vesselCmd.Flags().Float64Var(&assessHeading, "heading", 0, "Course over ground in degrees [0,360)")
	vesselCmd.Flags().Float64Var(&assessSpeed, "speed", 0, "Speed over ground in knots")
	vesselCmd.Flags().Float64Var(&assessDraft, "draft", 0, "Draft in meters")
	vesselCmd.Flags().StringVar(&assessClass, "class", string(maritime.VesselGeneral), "Vessel class: tanker|container|general|bulk|passenger|fishing")
	vesselCmd.MarkFlagRequired("name")

	fleetCmd := &cobra.Command{
		Use:   "fleet",
		Short: "Assess every vessel in a fleet file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssessFleet(cmd)
		},
	}
	fleetCmd.Flags().StringVar(&assessFleetFile, "file", "", "JSON file holding an array of vessel states (required)")
	fleetCmd.MarkFlagRequired("file")

	zonesCmd := &cobra.Command{
		Use:   "zones",
		Short: "List the hazard zones currently in force",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssessZones(cmd)
		},
	}
	zonesCmd.Flags().StringVar(&assessSource, "source", "", "Limit zones to one authority source (CN_MSA, TW_MPB)")

	assessCmd.AddCommand(vesselCmd, fleetCmd, zonesCmd)
	return assessCmd
}

func runAssessVessel(cmd *cobra.Command) error {
	cliCtx, err := requireClient(cmd)
	if err != nil {
		return err
	}

	vessel := client.Vessel{
		Name:       assessName,
		Position:   maritime.GeoPoint{Lat: assessLat, Lon: assessLon},
		HeadingDeg: assessHeading,
		SpeedKnots: assessSpeed,
		DraftM:     assessDraft,
		Class:      assessClass,
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	profile, err := cliCtx.Client.Assess().Vessel(ctx, vessel)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return PrintResult(cmd, profile)
	}
	renderRiskProfile(cmd, profile)
	return nil
}

func runAssessFleet(cmd *cobra.Command) error {
	cliCtx, err := requireClient(cmd)
	if err != nil {
		return err
	}

	vessels, err := loadFleetFile(assessFleetFile)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	summary, err := cliCtx.Client.Assess().Fleet(ctx, vessels)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return PrintResult(cmd, summary)
	}
	renderFleetSummary(cmd, summary)
	return nil
}

func runAssessZones(cmd *cobra.Command) error {
	cliCtx, err := requireClient(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	zones, err := cliCtx.Client.Assess().HazardZones(ctx, assessSource)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return PrintResult(cmd, zones)
	}
	renderHazardZones(cmd, zones)
	return nil
}

func loadFleetFile(path string) ([]client.Vessel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "failed to read fleet file "+path)
	}
	var vessels []client.Vessel
	if err := json.Unmarshal(data, &vessels); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "fleet file is not a JSON array of vessels")
	}
	if len(vessels) == 0 {
		return nil, errors.New(errors.CodeFleetEmpty, "fleet file holds no vessels")
	}
	return vessels, nil
}

func renderRiskProfile(cmd *cobra.Command, profile *maritime.RiskProfile) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Vessel:  %s\n", profile.VesselName)
	fmt.Fprintf(out, "Level:   %s\n", colorThreatLevel(profile.Level))
	fmt.Fprintf(out, "Score:   %.1f\n", profile.OverallScore)
	if profile.ActionRequired {
		fmt.Fprintln(out, color.New(color.FgRed, color.Bold).Sprint("ACTION REQUIRED"))
	}

	if len(profile.Assessments) > 0 {
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Hazard", "Level", "Distance (km)", "In Zone", "Certainty", "Score"})
		table.SetBorder(false)
		for _, a := range profile.Assessments {
			table.Append([]string{
				a.HazardID,
				string(a.Level),
				fmt.Sprintf("%.2f", a.DistanceKm),
				fmt.Sprintf("%t", a.IsInZone),
				fmt.Sprintf("%.2f", a.Certainty),
				fmt.Sprintf("%.1f", a.Score),
			})
		}
		table.Render()
	}

	for _, rec := range profile.Recommendations {
		fmt.Fprintf(out, "  - %s\n", rec)
	}
}

func renderFleetSummary(cmd *cobra.Command, summary *maritime.FleetSummary) {
	out := cmd.OutOrStdout()
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Vessel", "Level", "Score", "Action Required"})
	table.SetBorder(false)
	for _, p := range summary.Profiles {
		table.Append([]string{
			p.VesselName,
			string(p.Level),
			fmt.Sprintf("%.1f", p.OverallScore),
			fmt.Sprintf("%t", p.ActionRequired),
		})
	}
	table.Render()

	for _, level := range []maritime.ThreatLevel{maritime.ThreatCritical, maritime.ThreatHigh, maritime.ThreatMedium, maritime.ThreatLow, maritime.ThreatSafe} {
		if n := summary.CountsByLevel[level]; n > 0 {
			fmt.Fprintf(out, "%s: %d\n", colorThreatLevel(level), n)
		}
	}
	if len(summary.CriticalAlerts) > 0 {
		fmt.Fprintf(out, "%s for %d vessel(s)\n",
			color.New(color.FgRed, color.Bold).Sprint("CRITICAL ALERTS"), len(summary.CriticalAlerts))
	}
}

func renderHazardZones(cmd *cobra.Command, zones []maritime.HazardZone) {
	out := cmd.OutOrStdout()
	if len(zones) == 0 {
		fmt.Fprintln(out, "No hazard zones in force.")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Kind", "Vertices", "Buffer (km)", "Title"})
	table.SetBorder(false)
	for _, z := range zones {
		table.Append([]string{
			z.ID,
			string(z.Kind),
			fmt.Sprintf("%d", len(z.Vertices)),
			fmt.Sprintf("%.1f", z.BufferKm),
			z.Metadata.Title,
		})
	}
	table.Render()
}

func colorThreatLevel(level maritime.ThreatLevel) string {
	switch level {
	case maritime.ThreatCritical:
		return color.New(color.FgRed, color.Bold).Sprint(string(level))
	case maritime.ThreatHigh:
		return color.New(color.FgRed).Sprint(string(level))
	case maritime.ThreatMedium:
		return color.New(color.FgYellow).Sprint(string(level))
	case maritime.ThreatLow:
		return color.New(color.FgCyan).Sprint(string(level))
	default:
		return color.New(color.FgGreen).Sprint(string(level))
	}
}
