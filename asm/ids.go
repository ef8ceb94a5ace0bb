package asm

// IDs allocates jump ids, counter ids and macro expansion sequence numbers.
//
// One IDs is shared by every Builder and the Assembler of a single run, so
// that ids never collide between included files and macro expansions.
type IDs struct {
	jump    int
	counter int
	seq     int
}

// Jump allocates a jump id.
func (ids *IDs) Jump() (id int) {
	id = ids.jump
	ids.jump++
	return
}

// Counter allocates a counter id.
func (ids *IDs) Counter() (id int) {
	id = ids.counter
	ids.counter++
	return
}

// Expansion allocates a macro expansion sequence number, starting at 1.
func (ids *IDs) Expansion() int {
	ids.seq++
	return ids.seq
}

// Reset the allocator for an independent run.
func (ids *IDs) Reset() {
	*ids = IDs{}
}
