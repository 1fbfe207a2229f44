// spacetool is a CLI utility for checking walkthrough space descriptors and
// their assets without opening a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Faultbox/walkthrough/internal/engine/loader"
	"github.com/Faultbox/walkthrough/internal/engine/navigation"
	"github.com/Faultbox/walkthrough/internal/engine/tour"
	"github.com/Faultbox/walkthrough/pkg/space"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "tour":
		cmdTour(args)
	case "mesh":
		cmdMesh(args)
	case "assets":
		cmdAssets(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`spacetool - walkthrough space utility

Usage:
  spacetool <command> [options]

Commands:
  info <space.yaml>                 Validate a descriptor and summarize it
  tour <space.yaml>                 Print the auto-tour route
  mesh [-decoder path] <file.glb>   Decode a mesh and list its parts
  assets [-decoder path] <space.yaml>
                                    Load every asset a space needs

Examples:
  spacetool info loft.yaml
  spacetool mesh -decoder ./gltf-decompress loft.glb
  spacetool assets loft.yaml`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadSpace(args []string, usage string) *space.Space {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spacetool "+usage)
		os.Exit(1)
	}
	sp, err := space.LoadFile(args[0])
	if err != nil {
		fail("%v", err)
	}
	return sp
}

func cmdInfo(args []string) {
	sp := loadSpace(args, "info <space.yaml>")
	g := navigation.NewGraph(sp.Nodes)

	fmt.Printf("Space:       %s\n", sp.Name)
	fmt.Printf("Nodes:       %d\n", len(sp.Nodes))
	fmt.Printf("Hotspots:    %d\n", len(sp.Hotspots))
	fmt.Printf("Default:     %s\n", sp.DefaultNodeID)
	fmt.Printf("Mesh:        %s\n", sp.MeshURL)
	fmt.Printf("Environment: %s\n", sp.EnvironmentURL)
	fmt.Printf("Free move:   %v\n", sp.ManualWalkEnabled)
	if sp.Bounds != nil {
		fmt.Printf("Bounds:      %v .. %v\n", sp.Bounds.Min, sp.Bounds.Max)
	}

	var warnings []string
	if _, ok := g.Node(sp.DefaultNodeID); !ok {
		warnings = append(warnings, fmt.Sprintf("default node %q not found; the first node is used", sp.DefaultNodeID))
	}
	for _, n := range sp.Nodes {
		for _, id := range n.ConnectedTo {
			if _, ok := g.Node(id); !ok {
				warnings = append(warnings, fmt.Sprintf("node %q connects to unknown node %q", n.ID, id))
			}
		}
	}
	for _, h := range sp.Hotspots {
		if h.TargetNodeID == "" {
			continue
		}
		if _, ok := g.Node(h.TargetNodeID); !ok {
			warnings = append(warnings, fmt.Sprintf("hotspot %q targets unknown node %q", h.ID, h.TargetNodeID))
		}
	}

	byType := make(map[string]int)
	for _, h := range sp.Hotspots {
		byType[string(h.Type)]++
	}
	if len(byType) > 0 {
		types := make([]string, 0, len(byType))
		for t := range byType {
			types = append(types, t)
		}
		sort.Strings(types)
		fmt.Println()
		fmt.Println("Hotspots by type:")
		for _, t := range types {
			fmt.Printf("  %-12s %d\n", t, byType[t])
		}
	}

	if len(warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range warnings {
			fmt.Printf("  %s\n", w)
		}
	}
}

func cmdTour(args []string) {
	sp := loadSpace(args, "tour <space.yaml>")
	route := tour.BuildRoute(navigation.NewGraph(sp.Nodes), sp.AutoTour)
	if len(route) == 0 {
		fmt.Println("Route is empty; the auto-tour will not start.")
		return
	}
	fmt.Printf("Dwell: %v\n", time.Duration(sp.AutoTour.DwellMs)*time.Millisecond)
	for i, n := range route {
		fmt.Printf("%3d  %-20s floor %d  %s\n", i+1, n.ID, n.Floor, strings.Join(n.Tags, ","))
	}
}

func cmdMesh(args []string) {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	decoder := fs.String("decoder", "", "Mesh decompression tool")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spacetool mesh [-decoder path] <file.glb>")
		os.Exit(1)
	}

	l := loader.New(loader.Config{DecoderPath: *decoder})
	start := time.Now()
	sc, err := l.LoadScene(context.Background(), fs.Arg(0))
	if err != nil {
		fail("%v", err)
	}
	printScene(sc, time.Since(start))
}

func cmdAssets(args []string) {
	fs := flag.NewFlagSet("assets", flag.ExitOnError)
	decoder := fs.String("decoder", "", "Mesh decompression tool")
	timeout := fs.Duration("timeout", loader.DefaultFetchTimeout, "Per-fetch timeout")
	fs.Parse(args)

	sp := loadSpace(fs.Args(), "assets [-decoder path] <space.yaml>")
	l := loader.New(loader.Config{
		DecoderPath:  *decoder,
		FetchTimeout: *timeout,
		BaseDir:      filepath.Dir(fs.Arg(0)),
	})

	start := time.Now()
	res, err := l.Load(context.Background(), sp)
	if err != nil {
		fail("%v", err)
	}
	env := res.Environment
	dir, color := env.KeyLight()
	fmt.Printf("Environment: %dx%d hdr=%v\n", env.Width, env.Height, env.HDR)
	fmt.Printf("  ambient    %.3f %.3f %.3f\n", env.Ambient.X, env.Ambient.Y, env.Ambient.Z)
	fmt.Printf("  key light  dir %.2f %.2f %.2f  color %.2f %.2f %.2f\n", dir.X, dir.Y, dir.Z, color.X, color.Y, color.Z)
	fmt.Println()
	printScene(res.Scene, time.Since(start))
}

func printScene(sc *loader.Scene, elapsed time.Duration) {
	var tris int
	for _, m := range sc.Meshes {
		tris += len(m.Indices) / 3
	}
	fmt.Printf("Mesh:        %s (%v)\n", sc.Source, elapsed.Round(time.Millisecond))
	fmt.Printf("  parts      %d\n", len(sc.Meshes))
	fmt.Printf("  triangles  %d\n", tris)
	fmt.Printf("  colliders  %d (%d opted out)\n", sc.Collision.Len(), len(sc.Meshes)-sc.Collision.Len())
	fmt.Printf("  bounds     %v .. %v\n", sc.Bounds.Min, sc.Bounds.Max)
	for _, c := range sc.Clips {
		fmt.Printf("  clip       %-20s %v\n", c.Name, c.Duration)
	}
}
