package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"photo-backup/internal/capture"
)

// newDateCmd shows which date, if any, the filename patterns find in text.
func newDateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "date <text>...",
		Short:   "Print the date found in a file or folder name",
		Example: "  photo-backup date IMG_20230715_1200.jpg 2022-01-31-vacation photo_final.jpg",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			now := time.Now()
			for _, s := range args {
				if d, ok := capture.ExtractDate(s, now); ok {
					fmt.Fprintf(out, "%s\t%s\n", s, d)
				} else {
					fmt.Fprintf(out, "%s\tno date\n", s)
				}
			}
			return nil
		},
	}
}

// newExifCmd dumps every EXIF tag of an image, sorted by name.
func newExifCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exif <image>",
		Short: "Print the EXIF tags of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := capture.ExifTagReader{}.ReadTags(args[0])
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No EXIF data found.")
				return nil
			}

			names := make([]string, 0, len(tags))
			for name := range tags {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, tags[name])
			}
			return nil
		},
	}
}

// newResolveCmd prints the date a backup would file each image under.
func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Print the capture date and where it came from",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := capture.NewResolver()
			for _, path := range args {
				d := r.Resolve(path)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", path, d, d.Source)
			}
			return nil
		},
	}
}
