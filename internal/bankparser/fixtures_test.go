package bankparser

const bnpFixture = `Solde au 31/01/2026;2 398,71
Date opération;Libellé simplifié;Libellé opération;Référence;Type opération;Catégorie;Sous-catégorie;Montant
05/01/2026;VIREMENT SALAIRE;VIR SEPA SALAIRE JANVIER;REF1;Virement;Revenus;Salaire;+2500.00
12/01/2026;CARREFOUR;CB CARREFOUR 11/01;REF2;Carte;Alimentation;Courses;-85.30
20/01/2026;NETFLIX;PRLV NETFLIX;REF3;Prélèvement;Loisirs;Streaming;-15.99
`

const societeGeneraleFixture = `Date;Libellé;Débit euros;Crédit euros
2026-01-03;CB MONOPRIX;-42,10;
2026-01-05;VIR SALAIRE;;2 100,00
2026-01-07;PRLV EDF;65,00;
not-a-date;BROKEN ROW;-1,00;
`

const creditAgricoleFixture = `Crédit Agricole;;;
Solde au 31/01/2026 1 234,56 €;;;
Date;Libellé;Débit euros;Crédit euros
15/01/2026;PAIEMENT PAR CARTE   BOULANGERIE;12,40;
46037;VIREMENT EN VOTRE FAVEUR;;300,00
`

const caisseDEpargneFixture = `Code de la banque : 13825;Code de l'agence : 00200;Date de début de téléchargement : 01/01/2026;Date de fin de téléchargement : 31/01/2026
Numéro de compte : 04123456789;Type de compte : Compte Chèque;Devise : EUR
Solde en fin de période;;;;1 512,34
Date;Numéro d'opération;Libellé;Débit;Crédit;Détail
28/01/2026;A1B2C3;PRLV SEPA FREE MOBILE;-19,99;;PRLV SEPA FREE MOBILE
25/01/2026;A1B2C4;VIR SEPA EMPLOYEUR;;2 300,00;VIR SEPA EMPLOYEUR
`

const banquePopulaireFixture = `Date de comptabilisation;Libellé simplifié;Libellé opération;Référence;Informations complémentaires;Type opération;Catégorie;Sous-catégorie;Débit;Crédit;Date opération;Date de valeur;Pointage opération
02/02/2026;AMAZON;CB AMAZON EU;REF;;Carte bancaire;Achats;Divers;-45,99;;01/02/2026;02/02/2026;0
03/02/2026;VIR;VIR M DUPONT;REF;;Virement;Revenus;;;+150,00;03/02/2026;03/02/2026;0
`

const hsbcFixture = `Date,Description,Amount
15/01/2026,TESCO STORES 2231,-23.45
16/01/2026,SALARY ACME LTD,"2,150.00"
17/01/2026,RENT,"-1,200.00"
`

const n26Fixture = `"Date","Payee","Account number","Transaction type","Payment reference","Amount (EUR)","Amount (Foreign Currency)","Type Foreign Currency","Exchange Rate"
"2026-01-04","Lidl","","MasterCard Payment","","- 85.30","","",""
"2026-01-05","ACME GmbH","DE89370400440532013000","Income","Salary","2400.00","","",""
`

const monzoFixture = `Transaction ID,Date,Time,Type,Name,Emoji,Category,Amount,Currency,Local amount,Local currency,Notes and #tags,Address,Receipt,Description,Category split,Money Out,Money In
tx_0001,03/01/2026,09:15:00,Card payment,Pret A Manger,,Eating out,-6.45,GBP,-6.45,GBP,,,,PRET A MANGER LONDON,,-6.45,
tx_0002,04/01/2026,12:00:00,Faster payment,,,Income,1500.00,GBP,1500.00,GBP,,,,SALARY JANUARY,,,1500.00
tx_0003,05/01/2026,18:30:00,Card payment,Fnac,,Shopping,-30.00,EUR,-30.00,EUR,,,,FNAC PARIS,,-30.00,
`

const wiseFixture = `"TransferWise ID",Date,Amount,Currency,Description,"Payment Reference","Running Balance","Exchange From","Exchange To","Exchange Rate","Payer Name","Payee Name","Payee Account Number",Merchant,"Card Last Four Digits","Card Holder Full Name",Attachment,Note,"Total fees"
CARD-1003,22-01-2026,-12.50,USD,"Card transaction",,867.50,,,,,,,Shop,,,,,0.00
TRANSFER-1002,20-01-2026,-120.00,EUR,"Sent money to Jane",,880.00,,,,,"Jane Doe",,,,,,,0.00
TRANSFER-1001,15-01-2026,1000.00,EUR,"Received money from ACME",,1000.00,,,,ACME,,,,,,,,0.00
`

const mcbFixture = `Relevé de compte
Devise du compte MGA
Date de la transaction,Date de valeur,Description,Débit,Crédit,Solde
05/01/2026,05/01/2026,RETRAIT GAB ANALAKELY,"150000,00",,"1250000,00"
10/01/2026,10/01/2026,VIREMENT RECU,,"500000,00","1750000,00"
`

const camtFixture = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Ccy>CHF</Ccy></Acct>
      <Bal><Tp><CdOrPrtry><Cd>OPBD</Cd></CdOrPrtry></Tp><Amt Ccy="CHF">1000.00</Amt><CdtDbtInd>CRDT</CdtDbtInd><Dt><Dt>2026-01-01</Dt></Dt></Bal>
      <Bal><Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp><Amt Ccy="CHF">1850.50</Amt><CdtDbtInd>CRDT</CdtDbtInd><Dt><Dt>2026-01-31</Dt></Dt></Bal>
      <Ntry>
        <Amt Ccy="CHF">49.50</Amt><CdtDbtInd>DBIT</CdtDbtInd><Sts>BOOK</Sts><BookgDt><Dt>2026-01-10</Dt></BookgDt>
        <NtryDtls><TxDtls><RltdPties><Cdtr><Nm>Migros</Nm></Cdtr></RltdPties></TxDtls></NtryDtls>
      </Ntry>
      <Ntry>
        <Amt Ccy="CHF">900.00</Amt><CdtDbtInd>CRDT</CdtDbtInd><Sts>BOOK</Sts><BookgDt><Dt>2026-01-25</Dt></BookgDt>
        <NtryDtls><TxDtls><RmtInf><Ustrd>Salaire janvier</Ustrd></RmtInf></TxDtls></NtryDtls>
      </Ntry>
      <Ntry>
        <Amt Ccy="CHF">10.00</Amt><CdtDbtInd>DBIT</CdtDbtInd><Sts>PDNG</Sts><BookgDt><Dt>2026-01-31</Dt></BookgDt>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>
`

const pdfFixture = `RELEVE DE COMPTE
Date Libellé Montant
03/01/2026 CB CARREFOUR MARKET -54,20
05/01/2026 05/01/2026 VIREMENT SALAIRE 2 450,00
Total des opérations 2 395,80
`

// formatFixture is a sample export together with the file name it would be uploaded under.
type formatFixture struct {
	bank     string
	filename string
	content  string
}

var allFixtures = []formatFixture{
	{bank: bnpBankName, filename: "releve_bnp.csv", content: bnpFixture},
	{bank: societeGeneraleBankName, filename: "sg.csv", content: societeGeneraleFixture},
	{bank: creditAgricoleBankName, filename: "CA20260131.xlsx", content: creditAgricoleFixture},
	{bank: caisseDEpargneBankName, filename: "telechargement.csv", content: caisseDEpargneFixture},
	{bank: banquePopulaireBankName, filename: "bp.csv", content: banquePopulaireFixture},
	{bank: hsbcBankName, filename: "TransactionHistory.csv", content: hsbcFixture},
	{bank: n26BankName, filename: "n26-csv-transactions.csv", content: n26Fixture},
	{bank: monzoBankName, filename: "MonzoDataExport.csv", content: monzoFixture},
	{bank: wiseBankName, filename: "statement_EUR.csv", content: wiseFixture},
	{bank: mcbBankName, filename: "mcb.csv", content: mcbFixture},
	{bank: camtBankName, filename: "camt053.xml", content: camtFixture},
	{bank: pdfBankName, filename: "releve.pdf", content: pdfFixture},
}

func ptr(s string) *string { return &s }
