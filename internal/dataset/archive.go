package dataset

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	archiveOpenErrorTemplateConstant      = "unable to open archive %s: %w"
	archiveExtractionErrorTemplateConstant = "unable to extract %s from archive %s: %w"
	archiveEscapeMessageConstant          = "archive entry escapes the extraction directory"
	zipExtensionConstant                  = ".zip"
	extractedDirectoryPermissionsConstant = 0o755
)

// ErrArchiveEntryEscapes indicates an archive entry whose path would escape the extraction directory.
var ErrArchiveEntryEscapes = errors.New(archiveEscapeMessageConstant)

// ExpandArchive extracts a zip archive next to itself and returns the extraction directory.
func ExpandArchive(archivePath string) (string, error) {
	extractionDirectory := strings.TrimSuffix(archivePath, zipExtensionConstant)
	return ExpandArchiveInto(archivePath, extractionDirectory)
}

// ExpandArchiveInto extracts a zip archive into the provided directory.
func ExpandArchiveInto(archivePath string, extractionDirectory string) (string, error) {
	archiveReader, openError := zip.OpenReader(archivePath)
	if openError != nil {
		return "", fmt.Errorf(archiveOpenErrorTemplateConstant, archivePath, openError)
	}
	defer archiveReader.Close()

	for _, archiveEntry := range archiveReader.File {
		if extractionError := extractArchiveEntry(archiveEntry, extractionDirectory); extractionError != nil {
			return "", fmt.Errorf(archiveExtractionErrorTemplateConstant, archiveEntry.Name, archivePath, extractionError)
		}
	}

	return extractionDirectory, nil
}

func extractArchiveEntry(archiveEntry *zip.File, extractionDirectory string) error {
	destinationPath := filepath.Join(extractionDirectory, archiveEntry.Name)
	if !strings.HasPrefix(destinationPath, filepath.Clean(extractionDirectory)+string(os.PathSeparator)) {
		return ErrArchiveEntryEscapes
	}

	if archiveEntry.FileInfo().IsDir() {
		return os.MkdirAll(destinationPath, extractedDirectoryPermissionsConstant)
	}

	if directoryError := os.MkdirAll(filepath.Dir(destinationPath), extractedDirectoryPermissionsConstant); directoryError != nil {
		return directoryError
	}

	entryReader, entryOpenError := archiveEntry.Open()
	if entryOpenError != nil {
		return entryOpenError
	}
	defer entryReader.Close()

	destinationFile, createError := os.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, archiveEntry.Mode())
	if createError != nil {
		return createError
	}
	defer destinationFile.Close()

	_, copyError := io.Copy(destinationFile, entryReader)
	return copyError
}
