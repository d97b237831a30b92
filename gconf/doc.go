/*
Package gconf provides a toolset for managing an extension configuration.

Each extension keeps a single configuration entity in the database, stored
under a key derived from the extension name. A configuration is created
from the genesis file and can later be changed only by its owner, using a
message carrying a patch.
*/
package gconf
