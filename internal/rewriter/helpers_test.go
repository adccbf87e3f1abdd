package rewriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// legacyText renders the pre-CTE report row as found in the benchmark script.
func legacyText(section, option, table string) string {
	column := "AUDIT_OPTION"
	if table == "DBA_PRIV_AUDIT_OPTS" {
		column = "PRIVILEGE"
	}
	return strings.NewReplacer(
		"{SECTION}", section,
		"{OPTION}", option,
		"{TABLE}", table,
		"{COLUMN}", column,
	).Replace(legacyTemplate)
}

const legacyTemplate = `-- {SECTION} Enable '{OPTION}' Audit Option - Oracle 12c+ Non-multitenant OR when running from PDB
SELECT '<tr class="' ||
  CASE 
    WHEN COUNT(*) > 0 THEN 'pass'
    ELSE 'fail'
  END || '">' ||
  '<td>{SECTION}</td>' ||
  '<td>Enable {OPTION} Audit Option (Scored) - ' || 
    CASE 
      WHEN (SELECT CDB FROM V$DATABASE) = 'YES' AND (SELECT SYS_CONTEXT('USERENV', 'CON_NAME') FROM DUAL) != 'CDB$ROOT' 
      THEN '12c+ PDB (' || (SELECT SYS_CONTEXT('USERENV', 'CON_NAME') FROM DUAL) || ')'
      ELSE '12c+ Non-MT'
    END || '</td>' ||
  '<td>' || CASE WHEN COUNT(*) > 0 THEN 'PASS' ELSE 'FAIL' END || '</td>' ||
  '<td>' || 
    CASE WHEN COUNT(*) > 0 THEN 
      LISTAGG({COLUMN} || ' (SUCCESS:' || SUCCESS || ', FAILURE:' || FAILURE || ')', ', ') WITHIN GROUP (ORDER BY {COLUMN})
    ELSE '{OPTION} audit not enabled'
    END || '</td>' ||
  '<td>{OPTION} audit enabled (SUCCESS=BY ACCESS, FAILURE=BY ACCESS)</td>' ||
  '<td class="remediation">AUDIT {OPTION};</td>' ||
  '</tr>'
FROM {TABLE}
WHERE USER_NAME IS NULL 
AND PROXY_NAME IS NULL
AND SUCCESS = 'BY ACCESS' 
AND FAILURE = 'BY ACCESS'
AND {COLUMN}='{OPTION}'
AND TO_NUMBER(SUBSTR((SELECT VERSION FROM V$INSTANCE), 1, 2)) >= 12
AND (
  -- Non-multitenant database
  NOT EXISTS (SELECT 1 FROM V$DATABASE WHERE CDB = 'YES')
  OR 
  -- Running from PDB (not CDB$ROOT)
  (EXISTS (SELECT 1 FROM V$DATABASE WHERE CDB = 'YES') AND 
   (SELECT SYS_CONTEXT('USERENV', 'CON_NAME') FROM DUAL) != 'CDB$ROOT')
);`

const inlineContainerCase = "CASE \n      WHEN (SELECT CDB FROM V$DATABASE) = 'YES'"

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

// copyTestdata copies a fixture into a temp dir and returns its path.
func copyTestdata(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(readTestdata(t, name)), 0o640))
	return path
}
