package domain

// Validate checks the scene graph for integrity problems.
// Every problem found is reported; the result is nil, a *ValidationError,
// or an *AggregateError.
func (s *Story) Validate() error {
	var errs []error
	report := func(sceneID, reason string) {
		errs = append(errs, &ValidationError{StoryID: s.ID, SceneID: sceneID, Reason: reason})
	}

	if s.ID == "" {
		report("", "missing story id")
	}

	ids := make(map[string]*Scene, len(s.Scenes))
	for i := range s.Scenes {
		sc := &s.Scenes[i]
		if sc.ID == "" {
			report("", "scene with empty id")
			continue
		}
		if _, dup := ids[sc.ID]; dup {
			report(sc.ID, "duplicate scene id")
			continue
		}
		ids[sc.ID] = sc
	}

	for i := range s.Scenes {
		sc := &s.Scenes[i]
		if sc.ID == "" {
			continue
		}
		if sc.IsEnding && len(sc.Choices) > 0 {
			report(sc.ID, "ending scene must not offer choices")
		}
		if !sc.IsEnding && len(sc.Choices) == 0 {
			report(sc.ID, "non-ending scene has no choices")
		}
		for _, c := range sc.Choices {
			if c.Inert() {
				continue
			}
			if _, ok := ids[c.NextSceneID]; !ok {
				report(sc.ID, "choice "+quote(c.Text)+" targets unknown scene "+quote(c.NextSceneID))
			}
		}
	}

	start, ok := ids[s.StartSceneID]
	switch {
	case s.StartSceneID == "":
		report("", "missing start scene id")
	case !ok:
		report("", "start scene "+quote(s.StartSceneID)+" not found")
	default:
		for _, id := range unreachable(s.Scenes, ids, start.ID) {
			report(id, "scene is unreachable from start")
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &AggregateError{Errors: errs}
}

// unreachable crawls the graph breadth-first from startID and returns the
// scenes never visited, in declaration order.
func unreachable(scenes []Scene, ids map[string]*Scene, startID string) []string {
	visited := map[string]bool{startID: true}
	queue := []string{startID}

	for len(queue) > 0 {
		current := ids[queue[0]]
		queue = queue[1:]

		for _, c := range current.Choices {
			if c.Inert() || visited[c.NextSceneID] {
				continue
			}
			if _, ok := ids[c.NextSceneID]; !ok {
				continue // dangling, reported separately
			}
			visited[c.NextSceneID] = true
			queue = append(queue, c.NextSceneID)
		}
	}

	var out []string
	for _, sc := range scenes {
		if sc.ID != "" && !visited[sc.ID] {
			out = append(out, sc.ID)
		}
	}
	return out
}

func quote(s string) string {
	return "'" + s + "'"
}
