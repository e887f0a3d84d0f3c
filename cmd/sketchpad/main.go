/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"sketchpad/internal/config"
	applog "sketchpad/internal/log"
	"sketchpad/internal/storage"
	"sketchpad/internal/telemetry"
	"sketchpad/internal/ui"
	"sketchpad/internal/version"
)

func usage() {
	fmt.Println("Sketchpad, a freehand drawing canvas")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sketchpad [ui]                      Launch the drawing window (build with -tags fyne for full UI)")
	fmt.Println("  sketchpad version|-v|--version      Show version")
	fmt.Println("  sketchpad config path               Print the config file location")
	fmt.Println("  sketchpad config show               Print the effective configuration as YAML")
	fmt.Println("  sketchpad config init               Write the effective configuration to the config file")
	fmt.Println("  sketchpad exports [n]               List the n most recent exports (default 20)")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.LogOptions())
	defer applog.Close()
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not applied", slog.Any("err", cfgErr))
	}

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	telemetry.SetDefault(telemetry.New(tcfg))

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	cmd := "ui"
	if len(args) > 1 {
		cmd = args[1]
	}
	switch cmd {
	case "version", "--version", "-v":
		fmt.Println("Sketchpad")
		fmt.Println(version.String())
	case "ui":
		if err := ui.Run(cfg); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(cfg, args[2:]); err != nil {
			l.Error("config failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	case "exports":
		if err := runExports(cfg, args[2:]); err != nil {
			l.Error("exports failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Println("unknown command:", cmd)
		usage()
		os.Exit(2)
	}
}

func runConfig(cfg config.AppConfig, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "path":
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(p)
	case "show":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "init":
		p, err := config.Save(cfg)
		if err != nil {
			return err
		}
		fmt.Println("Wrote", p)
	default:
		return fmt.Errorf("unknown config command %q", sub)
	}
	return nil
}

func runExports(cfg config.AppConfig, args []string) error {
	n := 20
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		n = v
	}
	path := cfg.JournalPath()
	if path == "" {
		return errors.New("export journal is disabled")
	}
	j, err := storage.OpenJournal(path)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()
	entries, err := j.Recent(context.Background(), n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No exports recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-4s %dx%d  %d strokes  %d bytes  %s\n",
			e.At.Local().Format("2006-01-02 15:04:05"), e.Format, e.Width, e.Height, e.Strokes, e.Bytes, e.Path)
	}
	return nil
}
