// Package catalog maintains the set of tracked markets.
//
// Discovery pages the upstream tagged event listing, filters candidates by
// volume and an exclusion keyword list, and replaces the catalog wholesale.
// Readers always see a complete set: the old one or the new one, never a mix.
//
// Condition ids (the secondary key trade queries need) are not part of the
// listing payload for every market; the snapshot path learns them from
// detail records and writes them back here. A wholesale replace carries
// learned ids forward so eligibility is not lost between discovery cycles.
package catalog
