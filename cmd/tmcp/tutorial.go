package main

import "strings"

// tutorial returns the worked-examples text printed by --examples.
func tutorial(progname string) string {
	text := `
If any "src" argument is a directory, the copy recurses within that
directory.

The "dst" argument must be a directory. If it does not already exist, it
will be created automatically. All copied files (and directory trees)
will be written within the "dst" directory. (Note that this means there
is no mechanism for renaming the destination copy, even if only a single
"src" file is given.)

Trailing slashes are ignored (and unnecessary) on all arguments.

To explore some usage examples, say we have the following directory
hierarchy:

  .
  |- tmbackup
  |  |- .HFS+ Private Directory Data?
  |  '- 2012-01-31-083451
  |     |- Foo.txt
  |     |- Bar.txt              **
  |     '- Music
  |        |- Nirvana
  |        |  |- in_bloom.mp3   **
  |        |  '- teen_spirit.mp3
  |        '- U2                **
  '- rescue

In our example, the entries marked with asterisks are empty placeholder
files that refer to real files stored within the ".HFS+ Private..."
directory. The entry "U2" is a placeholder for a whole directory, which
(on the original backed-up computer) had two files in it:
bloody_sunday.mp3 and with_or_without_you.mp3.

Each of the following usage examples is a command, followed by the
directory hierarchy that results from running that command.

PROG tmbackup/2012-01-31-083451/Music/Nirvana rescue
  .
  |- tmbackup      (unchanged)
  '- rescue
     '- Nirvana
        |- in_bloom.mp3
        '- teen_spirit.mp3

PROG tmbackup/2012-01-31-083451/Music .
  .
  |- tmbackup      (unchanged)
  |- rescue        (unchanged; empty)
  '- Music
     |- Nirvana
     |  |- in_bloom.mp3
     |  '- teen_spirit.mp3
     '- U2
        |- bloody_sunday.mp3
        '- with_or_without_you.mp3

PROG tmbackup/2012-01-31-083451 full_backup
  .
  |- tmbackup      (unchanged)
  |- rescue        (unchanged; empty)
  '- full_backup   (newly-created dir)
     '- 2012-01-31-083451
        |- Foo.txt
        |- Bar.txt
        '- Music
           |- Nirvana
           |  |- in_bloom.mp3
           |  '- teen_spirit.mp3
           '- U2
              |- bloody_sunday.mp3
              '- with_or_without_you.mp3

Destination collisions are never overwritten: an existing file at a
target path is left untouched and reported as skipped, and an existing
directory is merged into rather than replaced. Run with --dry-run first
if you are unsure what a command will touch.
`
	if progname == "" {
		progname = "tmcp"
	}
	return strings.ReplaceAll(strings.TrimLeft(text, "\n"), "PROG", progname)
}
