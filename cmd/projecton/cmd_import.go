/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/friendsincode/projecton/internal/catalog"
	"github.com/friendsincode/projecton/internal/importer"
)

var importOnConflict string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import songs from other presentation systems",
	Long:  "Import songs from ChordPro files, OpenLyrics XML, OpenLP databases, and CCLI SongSelect",
}

var importChordProCmd = &cobra.Command{
	Use:   "chordpro <file-or-directory>",
	Short: "Import ChordPro files",
	Long:  "Import one ChordPro file, or every .cho/.chopro/.crd file in a directory. Chord annotations are stripped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportChordPro,
}

var importOpenLyricsCmd = &cobra.Command{
	Use:   "openlyrics <file-or-directory>",
	Short: "Import OpenLyrics XML files",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportOpenLyrics,
}

var importOpenLPCmd = &cobra.Command{
	Use:   "openlp <songs.sqlite>",
	Short: "Import an OpenLP song database",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportOpenLP,
}

var (
	songSelectUser  string
	songSelectPass  string
	songSelectStore bool
)

var importSongSelectCmd = &cobra.Command{
	Use:   "songselect <ccli-number> [ccli-number...]",
	Short: "Import songs from CCLI SongSelect",
	Long:  "Log in to SongSelect with stored or supplied credentials and import the lyric text for each CCLI number",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImportSongSelect,
}

func init() {
	importCmd.PersistentFlags().StringVar(&importOnConflict, "on-conflict", "rename", "what to do when a title already exists: rename, skip, or replace")
	importSongSelectCmd.Flags().StringVar(&songSelectUser, "username", "", "SongSelect account email (uses stored credentials when omitted)")
	importSongSelectCmd.Flags().StringVar(&songSelectPass, "password", "", "SongSelect account password")
	importSongSelectCmd.Flags().BoolVar(&songSelectStore, "store-credentials", false, "seal the supplied credentials in the data directory for later runs")

	importCmd.AddCommand(importChordProCmd)
	importCmd.AddCommand(importOpenLyricsCmd)
	importCmd.AddCommand(importOpenLPCmd)
	importCmd.AddCommand(importSongSelectCmd)
	rootCmd.AddCommand(importCmd)
}

func conflictPolicy() (importer.ConflictPolicy, error) {
	switch importOnConflict {
	case "rename":
		return importer.ConflictRename, nil
	case "skip":
		return importer.ConflictSkip, nil
	case "replace":
		return importer.ConflictReplace, nil
	}
	return 0, fmt.Errorf("unknown conflict policy %q", importOnConflict)
}

// collectFiles expands a file-or-directory argument into the matching
// files.
func collectFiles(arg string, extensions ...string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}

	entries, err := os.ReadDir(arg)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range extensions {
			if ext == want {
				files = append(files, filepath.Join(arg, e.Name()))
				break
			}
		}
	}
	return files, nil
}

func saveAndReport(songs []importer.Song) error {
	policy, err := conflictPolicy()
	if err != nil {
		return err
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	cat := catalog.New(database, logger)

	report, err := importer.Save(cat, songs, policy, logger)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d song(s): %d renamed, %d replaced, %d skipped\n",
		report.Imported, report.Renamed, report.Replaced, report.Skipped)
	return nil
}

func runImportChordPro(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	files, err := collectFiles(args[0], ".cho", ".chopro", ".crd", ".txt")
	if err != nil {
		return fmt.Errorf("collect chordpro files: %w", err)
	}

	var songs []importer.Song
	for _, file := range files {
		song, err := importer.ImportChordPro(file)
		if err != nil {
			return err
		}
		if song.Title == "" {
			logger.Warn().Str("file", file).Msg("chordpro file has no title directive; skipping")
			continue
		}
		songs = append(songs, song)
	}
	return saveAndReport(songs)
}

func runImportOpenLyrics(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	files, err := collectFiles(args[0], ".xml")
	if err != nil {
		return fmt.Errorf("collect openlyrics files: %w", err)
	}

	var songs []importer.Song
	for _, file := range files {
		song, err := importer.ImportOpenLyrics(file)
		if err != nil {
			return err
		}
		songs = append(songs, song)
	}
	return saveAndReport(songs)
}

func runImportOpenLP(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	songs, err := importer.ImportOpenLP(args[0])
	if err != nil {
		return err
	}
	return saveAndReport(songs)
}

func runImportSongSelect(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	creds := importer.Credentials{Username: songSelectUser, Password: songSelectPass}
	if creds.Username == "" {
		var err error
		creds, err = importer.LoadCredentials(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("no stored credentials; pass --username and --password: %w", err)
		}
	} else if songSelectStore {
		if err := importer.SaveCredentials(cfg.DataDir, creds); err != nil {
			return fmt.Errorf("store credentials: %w", err)
		}
	}

	ctx := context.Background()
	ss, err := importer.NewSongSelect(ctx, creds, logger)
	if err != nil {
		return err
	}
	defer ss.Close()

	var songs []importer.Song
	for _, number := range args {
		song, err := ss.FetchSong(number)
		if err != nil {
			return err
		}
		songs = append(songs, song)
	}
	return saveAndReport(songs)
}
