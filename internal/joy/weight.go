package joy

// NiceZeroWeight is the CFS reference weight for a nice-0 task (spec.md
// §4.3's NICE_0_WEIGHT), matching the Linux kernel's sched_prio_to_weight
// convention this table is ported from.
const NiceZeroWeight = 1024

// PrioBase is the static-priority value of a nice-0 task — scenario 5 of
// spec.md §8 uses static priorities (120, 122, 128) directly in this
// range rather than signed nice values.
const PrioBase = 120

// prioToWeight mirrors the Linux kernel's sched_prio_to_weight[] table,
// indexed by nice value shifted into [0,40): index 20 is nice 0, weight
// 1024. Ported verbatim because the CFS fairness property (spec.md §8)
// depends on a geometric weight progression, not an arbitrary one.
var prioToWeight = [40]uint64{
	/* nice -20 */ 88761, 71755, 56483, 46273, 36291,
	/* nice -15 */ 29154, 23254, 18705, 14949, 11916,
	/* nice -10 */ 9548, 7620, 6100, 4904, 3906,
	/* nice  -5 */ 3121, 2501, 1991, 1586, 1277,
	/* nice   0 */ 1024, 820, 655, 526, 423,
	/* nice   5 */ 335, 272, 215, 172, 137,
	/* nice  10 */ 110, 87, 70, 56, 45,
	/* nice  15 */ 36, 29, 23, 18, 15,
}

// Weight maps a static priority to its CFS weight. Priorities outside the
// representable nice range clamp to the table's extremes rather than
// indexing out of bounds.
func Weight(prio int) uint64 {
	nice := prio - PrioBase
	idx := nice + 20
	if idx < 0 {
		idx = 0
	}
	if idx > 39 {
		idx = 39
	}
	return prioToWeight[idx]
}
