package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
)

// ListSessions prints the saved playthroughs with their story and scene.
func ListSessions(ctx context.Context, store ports.SessionStore, w io.Writer) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "Kayıtlı oyun yok.")
		return nil
	}

	fmt.Fprintln(w, "Kayıtlı oyunlar:")
	for _, id := range ids {
		snap, err := store.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "- %s (okunamadı: %v)\n", id, err)
			continue
		}
		fmt.Fprintf(w, "- %s: %s @ %s [%s]\n", id, snap.StoryID, snap.CurrentSceneID(), snap.State)
	}
	return nil
}

// InspectSession prints the stored snapshot as indented JSON.
func InspectSession(ctx context.Context, store ports.SessionStore, id string, w io.Writer) error {
	snap, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", id, err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RemoveSessions deletes each session and reports every failure.
func RemoveSessions(ctx context.Context, store ports.SessionStore, ids []string, w io.Writer) error {
	var errs []error
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
			continue
		}
		fmt.Fprintf(w, "'%s' silindi\n", id)
	}
	return errors.Join(errs...)
}
