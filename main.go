/*
 * This file is part of the Go Cesium Point Cloud Tiler distribution (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/ecopia-map/terrain_tiler/pkg"
	"github.com/ecopia-map/terrain_tiler/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/terrain_tiler/tools"
	"github.com/golang/glog"
)

const VERSION = "0.3.0"

const logo = `
 _                       _         _   _ _
| |_ ___ _ __ _ __ __ _ (_)_ __   | |_(_) | ___ _ __
| __/ _ \ '__| '__/ _' || | '_ \  | __| | |/ _ \ '__|
| ||  __/ |  | | | (_| || | | | | | |_| | |  __/ |
 \__\___|_|  |_|  \__,_||_|_| |_|  \__|_|_|\___|_|
  Elevation raster tiles to paged LOD terrain databases
  Copyright YYYY
`

func main() {
	defer glog.Flush()

	flagsGlobal := tools.ParseFlagsGlobal()
	glog.V(1).Infoln("global flags", tools.FmtJSONString(flagsGlobal))

	if *flagsGlobal.Help {
		showHelp()
		return
	}
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		glog.Fatal("Please specify a subcommand [index|merge|verify].")
	}
	cmd, args := args[0], args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case tools.CommandIndex:
		mainCommandIndex(ctx, args)
	case tools.CommandMerge:
		mainCommandMerge(ctx, args)
	case tools.CommandVerify:
		mainCommandVerify(ctx, args)
	default:
		glog.Fatalf("Unrecognized command [%q]. Command must be one of [index|merge|verify]", cmd)
	}
}

func mainCommandIndex(ctx context.Context, args []string) {
	flags := tools.ParseFlagsForCommandIndex(args)
	if handled := handleCommonFlags(*flags.Help, *flags.Version, *flags.Silent, *flags.LogTimestamp); handled {
		return
	}

	opts, err := buildOptions(tools.CommandIndex, flags.TilerFlags, *flags.Config)
	if err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}

	if msg, res := validateOptionsForCommandIndex(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}

	defer timeTrack(time.Now(), "index")
	err = pkg.NewTiler(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunTiler(ctx, opts)
	if err != nil {
		glog.Fatal("Error while tiling: ", err)
	}
	tools.LogOutput("Conversion Completed")
}

func mainCommandMerge(ctx context.Context, args []string) {
	flags := tools.ParseFlagsForCommandMerge(args)
	if handled := handleCommonFlags(*flags.Help, *flags.Version, *flags.Silent, *flags.LogTimestamp); handled {
		return
	}

	opts, err := buildOptions(tools.CommandMerge, flags.TilerFlags, *flags.Config)
	if err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}

	if msg, res := validateOptionsForCommandMerge(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}

	defer timeTrack(time.Now(), "merge")
	err = pkg.NewTilerMerge(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunTiler(ctx, opts)
	if err != nil {
		glog.Fatal("Error while merging: ", err)
	}
	tools.LogOutput("Merge Completed")
}

func mainCommandVerify(ctx context.Context, args []string) {
	flags := tools.ParseFlagsForCommandVerify(args)
	if handled := handleCommonFlags(*flags.Help, *flags.Version, *flags.Silent, false); handled {
		return
	}

	opts := tiler.DefaultTilerOptions()
	opts.Command = tools.CommandVerify
	opts.Output = tools.ResolveWorkPath(*flags.Output)
	opts.SearchPaths = tools.GetSearchPaths()

	if _, err := os.Stat(opts.Output); os.IsNotExist(err) {
		glog.Fatal("Error parsing input parameters: Output folder not found")
	}

	err := pkg.NewTilerVerify(std_algorithm_manager.NewAlgorithmManager(opts)).RunTiler(ctx, opts)
	if err != nil {
		glog.Fatal("Verification failed: ", err)
	}
	tools.LogOutput("Verification Completed")
}

// Handles help, version and logging flags. Returns true when the command should stop there.
func handleCommonFlags(help, version, silent, timestamp bool) bool {
	if help {
		showHelp()
		return true
	}
	if version {
		printVersion()
		return true
	}

	if silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !timestamp {
		tools.DisableLoggerTimestamp()
	}
	return false
}

// Layers the options: defaults, then the config file, then the flags given on the command line
func buildOptions(command string, flags tools.TilerFlags, configPath string) (*tiler.TilerOptions, error) {
	opts := tiler.DefaultTilerOptions()
	opts.Command = command

	if configPath != "" {
		if err := tiler.ApplyConfigFile(tools.ResolveWorkPath(configPath), opts); err != nil {
			return nil, err
		}
	}
	if err := flags.Apply(opts); err != nil {
		return nil, err
	}
	tools.ResolveWorkPaths(opts)
	opts.SearchPaths = append(opts.SearchPaths, tools.GetSearchPaths()...)
	glog.V(1).Infoln("options", tools.FmtJSONString(opts))

	opts.Progress = tools.NewProgressLogger(100)
	return opts, nil
}

// Validates the input options provided to the command line tool checking
// that input and output folders exist and the numeric options make sense
func validateOptionsForCommandIndex(opts *tiler.TilerOptions) (string, bool) {
	if msg, res := validateTilerOptions(opts); !res {
		return msg, res
	}
	if opts.Output == "" {
		return "Output folder not specified", false
	}
	return "", true
}

func validateOptionsForCommandMerge(opts *tiler.TilerOptions) (string, bool) {
	return validateOptionsForCommandIndex(opts)
}

func validateTilerOptions(opts *tiler.TilerOptions) (string, bool) {
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input folder not found", false
	}
	if opts.Appearance == "" {
		return "appearance should be either basic or phong", false
	}
	if opts.TextureWidth <= 0 || opts.AOWidth <= 0 {
		return "texture-width and ao-width must be positive", false
	}
	if opts.Transition <= 0 {
		return "transition must be positive", false
	}
	if opts.Workers < 0 {
		return "workers cannot be negative", false
	}
	if opts.TexturePath != "" && !opts.GenerateTexture {
		if _, err := os.Stat(opts.TexturePath); os.IsNotExist(err) && len(opts.SearchPaths) == 0 {
			return "Texture file not found", false
		}
	}
	for _, c := range opts.BaseColor {
		if c < 0 || c > 1 {
			return "color components must lie in [0,1]", false
		}
	}
	return "", true
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("terrain_tiler turns georeferenced elevation raster tiles into textured terrain meshes wrapped in a paged LOD database")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: terrain_tiler [global flags] <index|merge|verify> [command flags]")
	fmt.Println("  index   builds the full resolution database")
	fmt.Println("  merge   builds the coarse background database in <output>/background")
	fmt.Println("  verify  decodes a database and every artifact it references")
	fmt.Println("Run a command with -help to list its flags.")
	fmt.Println("")
	fmt.Println("Global flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
