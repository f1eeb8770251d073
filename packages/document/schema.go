package document

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["method", "url"],
  "additionalProperties": false,
  "properties": {
    "method": {"type": "string"},
    "url": {"type": "string"},
    "body": {"type": "string"},
    "timeout": {"type": "integer", "minimum": 0},
    "headers": {"type": "array", "items": {"$ref": "#/definitions/pair"}},
    "queryParams": {"type": "array", "items": {"$ref": "#/definitions/pair"}}
  },
  "definitions": {
    "pair": {
      "type": "object",
      "required": ["key"],
      "additionalProperties": false,
      "properties": {
        "key": {"type": "string"},
        "value": {"type": "string"},
        "enabled": {"type": "boolean"}
      }
    }
  }
}`
