/*
Package utils provides the decorators shared by every harvest application:
panic recovery, transaction logging, savepoints and action tagging.
*/
package utils
