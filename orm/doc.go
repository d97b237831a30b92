/*
Package orm provides an easy to use db wrapper.

Models are stored in buckets. Each bucket uses its name as the key prefix,
so that all models of a kind can be listed with a prefix scan. A stored value
is the schema version byte followed by the model serialization.

Sequences generate monotonic keys for models that have no natural key.
*/
package orm
