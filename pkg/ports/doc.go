/*
Package ports defines the driven ports (interfaces) of the story engine.

These interfaces decouple the catalog and session orchestration from concrete
story sources and storage backends.

# Key Interfaces

  - StoryLoader: produces story definitions (e.g., from YAML files, Loam or memory).
  - SessionStore: persists playthrough snapshots between requests.
  - DistributedLocker: serialises access to one session across replicas.
*/
package ports
