/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/projecton/internal/catalog"
	"github.com/friendsincode/projecton/internal/importer"
	"github.com/friendsincode/projecton/internal/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export songs for use in other presentation systems",
}

var exportOpenLyricsCmd = &cobra.Command{
	Use:   "openlyrics <directory> [title...]",
	Short: "Export songs as OpenLyrics XML",
	Long:  "Write one OpenLyrics XML file per song into the directory. With no titles, every song in the catalog is exported.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExportOpenLyrics,
}

func init() {
	exportCmd.AddCommand(exportOpenLyricsCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExportOpenLyrics(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	cat := catalog.New(database, logger)

	var songs []models.Song
	if len(args) > 1 {
		for _, title := range args[1:] {
			song, err := cat.GetSongData(title)
			if err != nil {
				return fmt.Errorf("song %q: %w", title, err)
			}
			songs = append(songs, *song)
		}
	} else {
		songs, err = cat.GetAllSongs()
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
	}

	written, err := importer.ExportOpenLyrics(args[0], songs)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d song(s) to %s\n", len(written), args[0])
	return nil
}
