// Package models defines the playlist document written for the game client and the persisted generation history.
//
// # Playlist Document
//
// [Playlist], [Song] and [Difficulty] carry JSON tags matching the client's playlist schema
// (playlistTitle, levelAuthorName, hash, ...). A song without difficulties omits the key entirely.
//
// [DifficultyName] maps the ranking service's numeric ranks (1, 3, 5, 7, 9) to tier names.
// Anything else is treated as ExpertPlus.
//
// # Generation History
//
// [GenerationRun] implements [Model] and is stored by repositories.RunRepository.
package models
