package main

import (
	"flag"
	"fmt"
	"os"

	"partner-evaluator/pkg/registry"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	relabelCmd := flag.NewFlagSet("relabel", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	exportPath := exportCmd.String("path", "configs/regions.json", "Where to write the built-in registry")

	relabelPath := relabelCmd.String("path", "configs/regions.json", "Path to registry file")
	id := relabelCmd.String("id", "", "Region or section ID (e.g., tech-stack, businessProfile)")
	label := relabelCmd.String("label", "", "New label or section title")

	validatePath := validateCmd.String("path", "configs/regions.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := registry.SaveRegistry(registry.Default(), *exportPath); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote built-in registry to %s\n", *exportPath)

	case "relabel":
		relabelCmd.Parse(os.Args[2:])
		if *id == "" || *label == "" {
			fmt.Println("Error: id and label are required for relabel.")
			relabelCmd.Usage()
			os.Exit(1)
		}
		if err := relabel(*relabelPath, *id, *label); err != nil {
			fmt.Printf("Error relabelling %s: %v\n", *id, err)
			os.Exit(1)
		}
		fmt.Printf("Relabelled %s to %q\n", *id, *label)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d regions in %d sections.\n", len(reg.Regions), len(reg.Sections))

	case "help":
		fallthrough
	default:
		help()
	}
}

func relabel(path, id, label string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if !reg.Relabel(id, label) {
		return fmt.Errorf("no region or section with ID %s", id)
	}
	return registry.SaveRegistry(reg, path)
}

func help() {
	fmt.Print(`
Usage: registry-labels <command> [flags]

Commands:
  export   Write the built-in display registry as JSON
  relabel  Change the label of a region or the title of a section
  validate Check a registry file against the built-in regions
  help     Show this help message

Examples:
  registry-labels export -path configs/regions.json
  registry-labels relabel -path configs/regions.json -id tech-stack -label "Technologies"
  registry-labels validate -path configs/regions.json

Point render.registry_path at the file to use the labels.
`+"\n")
}
