package mcpserver

// NoteFormat describes how zk lays out notes and the index, for LLM
// consumers that edit a vault directly.
const NoteFormat = `# zk Note Format

A vault is one flat directory. Every note is a Markdown file whose identity
is the uuid in its frontmatter, not its file name.

## Note file

` + "```" + `markdown
---
uuid: "4f9c2a4e-0d7b-4a53-9b8e-2f0d1b6c7e11"
title: "my note"
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. The first two lines that are exactly ` + "`---`" + ` delimit the frontmatter.
   Text before the first delimiter is ignored.
2. ` + "`uuid`" + ` is required and must never change. Copying a note means giving
   the copy a new uuid.
3. ` + "`title`" + ` is informational; it is only used in listings.
4. New notes are named ` + "`YYYY-MM-DD-<title>.md`" + ` with each run of whitespace
   in the title replaced by a single hyphen. Case and punctuation are kept.
5. Notes may be renamed freely. Run ` + "`sync_zettels`" + ` (or ` + "`zk update`" + `)
   afterwards so the index learns the new path.
6. Names starting with ` + "`_zettel`" + ` are reserved for the index
   (` + "`_zettel.json`" + `), the config (` + "`_zettel.yaml`" + `) and the catalog.
   Never create notes with that prefix.
7. Subdirectories are ignored.

## Index

` + "`_zettel.json`" + ` maps uuid to the note's creation time, modification time and
last known path. Do not edit it by hand; use ` + "`create_zettel`" + ` and
` + "`sync_zettels`" + `.
`
